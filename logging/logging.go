// Package logging builds the process logger: text or JSON on stderr, plus an
// optional Seq sink.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogseq "github.com/sokkalf/slog-seq"
)

// Options configures Setup.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // text or json
	SeqURL string    // Seq ingestion endpoint; empty disables it
	Output io.Writer // default os.Stderr
}

// multiHandler forwards log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// ParseLevel maps a level name to slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Setup builds a logger and returns it with a cleanup function that flushes
// the Seq sink. The logger is also installed as slog.Default.
func Setup(opts Options) (*slog.Logger, func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var console slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		console = slog.NewTextHandler(out, handlerOpts)
	case "json":
		console = slog.NewJSONHandler(out, handlerOpts)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	cleanup := func() {}
	handler := console

	if opts.SeqURL != "" {
		_, seqHandler := slogseq.NewLogger(
			opts.SeqURL,
			slogseq.WithBatchSize(1),
			slogseq.WithFlushInterval(500*time.Millisecond),
			slogseq.WithHandlerOptions(handlerOpts),
		)
		if seqHandler != nil {
			handler = &multiHandler{handlers: []slog.Handler{console, seqHandler}}
			cleanup = func() { seqHandler.Close() }
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, cleanup, nil
}
