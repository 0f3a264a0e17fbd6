package logger

import (
	"context"
	"log/slog"
)

// contextKey is an unexported type for context keys defined by this package.
type contextKey int

// loggerKey is the context key under which the request-scoped logger lives.
const loggerKey contextKey = 0

// WithLogger returns a copy of ctx carrying the given logger. Handlers and
// middleware use it to thread request-scoped loggers (with trace IDs and
// user IDs attached) down into services and stores.
// Panics if log is nil; storing a nil logger is always a programming error.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if log == nil {
		panic("logger.WithLogger called with nil logger")
	}
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger stored in ctx, or the process-wide default
// logger when ctx carries none (or is nil).
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault returns the logger stored in ctx, falling back to the
// provided default instead of the process-wide one. Components that hold a
// component-scoped logger pass it here so their attributes survive when no
// request logger is present.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if ctx == nil {
		return def
	}
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return log
	}
	return def
}
