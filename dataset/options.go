package dataset

import (
	"log/slog"
)

// ============================================================================
// LOADER OPTIONS — Functional options for LoadLiteracy / LoadAQI
// ============================================================================

// Option configures loader behavior via functional options pattern.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	dateLayouts []string
	source      string
}

// WithLogger sets the logger used for the per-load summary line.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDateLayouts replaces the accepted date layouts (see schema.DateLayouts).
func WithDateLayouts(layouts ...string) Option {
	return func(c *config) {
		c.dateLayouts = layouts
	}
}

// WithSource names the source (usually a file path) in logs and errors.
func WithSource(name string) Option {
	return func(c *config) {
		c.source = name
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
