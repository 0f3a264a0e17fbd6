// Package logger configures slog JSON logging for the service and carries
// request-scoped loggers through context.
package logger
