// Package server exposes the dashboards as a read-only JSON API.
//
// Tables are loaded once and shared by every request; handlers never mutate them.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/rs/cors"

	"github.com/spektr-org/insightedu/aqi"
	"github.com/spektr-org/insightedu/dataset"
	"github.com/spektr-org/insightedu/education"
	"github.com/spektr-org/insightedu/metrics"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCacheTTL sets how long responses are cached; zero or less disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Server) { s.cacheTTL = ttl }
}

// WithCORSOrigins sets the allowed CORS origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithThresholds sets the default alert thresholds used when a request gives none.
func WithThresholds(literacy, aqi float64) Option {
	return func(s *Server) {
		s.literacyThreshold = literacy
		s.aqiThreshold = aqi
	}
}

// Server answers dashboard queries over HTTP.
type Server struct {
	literacy []dataset.LiteracyRecord
	readings []dataset.AQIRecord

	logger            *slog.Logger
	cache             *cache.Cache
	cacheTTL          time.Duration
	origins           []string
	literacyThreshold float64
	aqiThreshold      float64
}

// New builds a Server over already-loaded tables.
func New(literacy []dataset.LiteracyRecord, readings []dataset.AQIRecord, opts ...Option) *Server {
	s := &Server{
		literacy:          literacy,
		readings:          readings,
		logger:            slog.Default(),
		cacheTTL:          5 * time.Minute,
		origins:           []string{"*"},
		literacyThreshold: education.DefaultLiteracyThreshold,
		aqiThreshold:      aqi.DefaultAQIThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cacheTTL > 0 {
		s.cache = cache.New(s.cacheTTL, 2*s.cacheTTL)
	}
	return s
}

// Handler returns the routed handler with CORS, recovery and logging applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/education", s.cached(s.educationPage)).Methods(http.MethodGet)
	api.HandleFunc("/education/compare", s.cached(s.educationCompare)).Methods(http.MethodGet)
	api.HandleFunc("/education/states", s.cached(s.educationStates)).Methods(http.MethodGet)
	api.HandleFunc("/aqi", s.cached(s.airQualityPage)).Methods(http.MethodGet)
	api.HandleFunc("/aqi/compare", s.cached(s.airQualityCompare)).Methods(http.MethodGet)
	api.HandleFunc("/aqi/compare/page", s.cached(s.airQualityComparePage)).Methods(http.MethodGet)
	api.HandleFunc("/aqi/cities", s.cached(s.airQualityCities)).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID", "X-Cache"},
		MaxAge:         86400,
	})
	return corsHandler.Handler(r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr,
			"education_records", len(s.literacy), "aqi_records", len(s.readings))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serverErrors
}
