// Package config reads runtime settings from the environment, after loading
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting. CLI flags may override fields after Load.
type Config struct {
	EducationCSV      string
	AQICSV            string
	LiteracyThreshold float64
	AQIThreshold      float64
	ListenAddr        string
	CacheTTL          time.Duration
	CORSOrigins       []string
	LogLevel          string
	LogFormat         string
	SeqURL            string
}

// Load reads .env files (missing files are ignored) and then the environment.
// With no files given it tries ".env" in the working directory.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg := &Config{
		EducationCSV: getEnvWithDefault("INSIGHT_EDUCATION_CSV", "datasets/literacy.csv"),
		AQICSV:       getEnvWithDefault("INSIGHT_AQI_CSV", "datasets/city_day.csv"),
		ListenAddr:   getEnvWithDefault("INSIGHT_LISTEN_ADDR", ":8080"),
		CORSOrigins:  getEnvAsList("INSIGHT_CORS_ORIGINS", []string{"*"}),
		LogLevel:     getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvWithDefault("LOG_FORMAT", "text"),
		SeqURL:       os.Getenv("SEQ_URL"),
	}

	var err error
	if cfg.LiteracyThreshold, err = getEnvAsFloat("INSIGHT_LITERACY_THRESHOLD", 60); err != nil {
		return nil, err
	}
	if cfg.AQIThreshold, err = getEnvAsFloat("INSIGHT_AQI_THRESHOLD", 200); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvAsDuration("INSIGHT_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Helper functions
func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number", key, value)
	}
	if f < 0 {
		return 0, fmt.Errorf("config: %s=%q must not be negative", key, value)
	}
	return f, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration: %w", key, value, err)
	}
	return d, nil
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
