package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"INSIGHT_EDUCATION_CSV", "INSIGHT_AQI_CSV", "INSIGHT_LITERACY_THRESHOLD",
	"INSIGHT_AQI_THRESHOLD", "INSIGHT_LISTEN_ADDR", "INSIGHT_CACHE_TTL",
	"INSIGHT_CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "SEQ_URL",
}

// clearEnv blanks every setting for the test; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EducationCSV != "datasets/literacy.csv" || cfg.AQICSV != "datasets/city_day.csv" {
		t.Errorf("unexpected paths: %+v", cfg)
	}
	if cfg.LiteracyThreshold != 60 || cfg.AQIThreshold != 200 {
		t.Errorf("unexpected thresholds: %v %v", cfg.LiteracyThreshold, cfg.AQIThreshold)
	}
	if cfg.CacheTTL != 5*time.Minute || cfg.ListenAddr != ":8080" {
		t.Errorf("unexpected server settings: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	data := "INSIGHT_AQI_THRESHOLD=150\nINSIGHT_CORS_ORIGINS=http://a.test, http://b.test\nINSIGHT_CACHE_TTL=30s\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AQIThreshold != 150 || cfg.CacheTTL != 30*time.Second {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("process env should win over .env, got %q", cfg.LogLevel)
	}
}

func TestLoadInvalidNumbers(t *testing.T) {
	for key, value := range map[string]string{
		"INSIGHT_LITERACY_THRESHOLD": "sixty",
		"INSIGHT_AQI_THRESHOLD":      "-5",
		"INSIGHT_CACHE_TTL":          "soon",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Errorf("expected error for %s=%s", key, value)
			}
		})
	}
}
