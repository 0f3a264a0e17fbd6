package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/g-celente/case-watch-back/internal/pagination"
	"github.com/g-celente/case-watch-back/internal/redact"
)

// Response is the envelope wrapping every API payload. Successful
// responses carry Data; failures carry Errors. Paginated listings also
// carry Pagination.
type Response struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Data       interface{}          `json:"data,omitempty"`
	Errors     interface{}          `json:"errors,omitempty"`
	Pagination *pagination.PageInfo `json:"pagination,omitempty"`
	TraceID    string               `json:"trace_id,omitempty"`
	Timestamp  string               `json:"timestamp"`
}

// ResponseOption defines a function to customize error response behavior.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to
// WARN level instead of the default DEBUG level. Use for operational
// issues like rate limiting or repeated auth failures.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	body.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes a success envelope with the given payload.
func RespondWithData(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	data interface{},
) {
	writeJSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithPage writes a success envelope for a paginated listing.
func RespondWithPage(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	data interface{},
	page pagination.PageInfo,
) {
	writeJSON(w, http.StatusOK, Response{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: &page,
	})
}

// RespondWithError writes a failure envelope with the given status code
// and message. The trace ID from the request context is echoed so clients
// can reference it in support requests.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	writeJSON(w, status, Response{
		Success: false,
		Message: message,
		TraceID: traceID,
	})
}

// RespondWithValidationErrors writes a failure envelope carrying
// field-level validation details.
func RespondWithValidationErrors(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fieldErrors interface{},
) {
	writeJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithErrorAndLog writes a failure envelope and logs the detailed
// error. The raw error never reaches the client; its redacted form goes
// to the logs only.
//
// Log level strategy:
//   - 5xx errors: always ERROR
//   - 429 Too Many Requests: WARN (operational concern)
//   - other 4xx errors: DEBUG by default, WARN with WithElevatedLogLevel
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case status == http.StatusTooManyRequests:
		logLevel = slog.LevelWarn
	case responseOpts.elevateLogLevel && status >= http.StatusBadRequest:
		logLevel = slog.LevelWarn
	}

	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	writeJSON(w, status, Response{
		Success: false,
		Message: userMessage,
		TraceID: traceID,
	})
}
