// Package service provides application-level services for managing tasks,
// categories, users, and derived reports.
package service

import (
	"errors"
	"fmt"

	"github.com/g-celente/case-watch-back/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped with context via fmt.Errorf
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotFound indicates the requested resource does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates the acting user is not allowed to perform the
	// operation, typically because the resource belongs to another user.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("operation not permitted")

	// ErrConflict indicates the operation collides with existing state,
	// such as a duplicate name or an already-recorded assignment.
	// API layer should map this to HTTP 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrValidation indicates the input fails a business rule, such as a
	// due date in the past or an unknown status value.
	// API layer should map this to HTTP 400 Bad Request.
	ErrValidation = errors.New("invalid input")
)

// fromStore translates a store error into the service taxonomy while
// keeping the original error in the chain for logging and errors.Is
// checks against store sentinels. Errors outside the taxonomy pass
// through unchanged so unexpected failures surface as 500s.
func fromStore(err error) error {
	switch {
	case err == nil:
		return nil
	case store.IsNotFoundError(err):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case store.IsDuplicateError(err):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return err
	}
}
