package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/g-celente/case-watch-back/internal/api/shared"
)

// RateLimiter limits each client IP to the given number of requests per
// minute. Exceeding the limit yields a 429 in the standard envelope.
func RateLimiter(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitExceeded),
	)
}

// AuthRateLimiter applies a stricter per-IP limit for credential
// endpoints to slow down brute-force attempts.
func AuthRateLimiter(attemptsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		attemptsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitExceeded),
	)
}

func limitExceeded(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
		"Too many requests, slow down", nil)
}
