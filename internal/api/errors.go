package api

import (
	"errors"
	"net/http"

	"github.com/g-celente/case-watch-back/internal/api/shared"
	"github.com/g-celente/case-watch-back/internal/service"
	"github.com/g-celente/case-watch-back/internal/service/auth"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes based on
// the error type. This keeps internal error types and messages from
// leaking to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict

	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// error. Internal details stay in the logs.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Invalid refresh token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrForbidden):
		return "You do not have access to this resource"

	case errors.Is(err, service.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, service.ErrConflict):
		return "The request conflicts with existing data"

	case errors.Is(err, service.ErrValidation):
		// Validation sentinels carry a safe, human-written message.
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// HandleServiceError writes the error response for a failed service call:
// mapped status, sanitized message, and full (redacted) detail in the logs.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
