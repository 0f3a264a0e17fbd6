package api

import (
	"log/slog"
	"net/http"

	"github.com/g-celente/case-watch-back/internal/api/shared"
	"github.com/g-celente/case-watch-back/internal/service"
)

// UserHandler handles the user listing and account endpoints.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger.With("component", "user_handler"),
	}
}

// List handles GET /users with pagination.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	page := parsePagination(r)
	users, pageInfo, err := h.userService.List(r.Context(), page)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithPage(w, r, "Users retrieved", users, pageInfo)
}

// Get handles GET /users/{id}, returning the user's profile with their
// task involvement counts.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	userID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "User retrieved", profile)
}

// Update handles PUT /users/{id}. Users may only update their own account.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	userID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	user, err := h.userService.Update(r.Context(), actorID, userID, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Password: req.Password,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "User updated successfully", user)
}

// Delete handles DELETE /users/{id}. Users may only delete their own account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	userID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), actorID, userID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "User deleted successfully", nil)
}
