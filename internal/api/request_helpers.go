package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/api/shared"
	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/pagination"
	"github.com/g-celente/case-watch-back/internal/service"
)

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the auth middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// requireUserID extracts the authenticated user ID or writes a 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID parses a UUID path parameter, or writes a 400 when the
// parameter is missing or malformed.
func getPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Missing %s parameter", paramName))
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Invalid %s parameter", paramName))
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads page/limit query parameters and clamps them to
// the allowed bounds. Missing or malformed values fall back to defaults.
func parsePagination(r *http.Request) pagination.Params {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return pagination.Clamp(page, limit)
}

// parseTimeRange reads startDate/endDate query parameters (RFC 3339 or
// plain dates) into a TimeRange. A reversed range is rejected.
func parseTimeRange(r *http.Request) (domain.TimeRange, error) {
	var rng domain.TimeRange

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return rng, fmt.Errorf("%w: invalid startDate", service.ErrValidation)
		}
		rng.From = &from
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return rng, fmt.Errorf("%w: invalid endDate", service.ErrValidation)
		}
		rng.To = &to
	}

	if rng.From != nil && rng.To != nil && rng.From.After(*rng.To) {
		return domain.TimeRange{}, fmt.Errorf("%w: startDate must not be after endDate", service.ErrValidation)
	}
	return rng, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// parseOptionalUUID reads a UUID query parameter, returning nil when absent.
func parseOptionalUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", service.ErrValidation, name)
	}
	return &id, nil
}

// parseTaskQuery reads the task listing filters from query parameters.
// Enum values are validated downstream; identifiers and dates are
// checked here so malformed input fails fast.
func parseTaskQuery(r *http.Request) (service.TaskQuery, error) {
	q := r.URL.Query()

	query := service.TaskQuery{
		Search:    q.Get("search"),
		Status:    domain.TaskStatus(q.Get("status")),
		Priority:  domain.TaskPriority(q.Get("priority")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Overdue:   q.Get("overdue") == "true",
	}

	categoryID, err := parseOptionalUUID(r, "categoryId")
	if err != nil {
		return service.TaskQuery{}, err
	}
	query.CategoryID = categoryID

	assigneeID, err := parseOptionalUUID(r, "assigneeId")
	if err != nil {
		return service.TaskQuery{}, err
	}
	query.AssigneeID = assigneeID

	rng, err := parseTimeRange(r)
	if err != nil {
		return service.TaskQuery{}, err
	}
	query.CreatedAt = rng

	return query, nil
}
