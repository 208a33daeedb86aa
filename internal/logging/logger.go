// Package logging configures structured logging on log/slog and ties log
// entries to chi request IDs so every line of a request can be correlated.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup installs the process-wide default logger.
//
// level is one of debug, info, warn, error (unknown values fall back to
// info). format selects the handler: "json" for machine-readable output,
// anything else for the text handler.
func Setup(level, format string) {
	var lvl slog.LevelVar
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.Set(slog.LevelInfo)
	}
	opts := &slog.HandlerOptions{Level: &lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// FromContext returns the default logger, extended with the chi request ID
// when the context carries one. Handlers use it so every log line of a
// request shares the same request_id attribute.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	return logger
}

// WithFields returns a request-scoped logger carrying extra attributes, for
// multi-step operations that should tag all their lines consistently:
//
//	log := logging.WithFields(ctx, "fingerprint", fp, "fiscal_year", year)
//	log.Info("reload started")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
