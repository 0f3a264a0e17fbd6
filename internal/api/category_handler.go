package api

import (
	"log/slog"
	"net/http"

	"github.com/g-celente/case-watch-back/internal/api/shared"
	"github.com/g-celente/case-watch-back/internal/service"
)

// CategoryHandler handles the category CRUD and stats endpoints.
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler with the given dependencies.
func NewCategoryHandler(categoryService service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger.With("component", "category_handler"),
	}
}

// List handles GET /categories with optional name search and pagination.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	page := parsePagination(r)
	search := r.URL.Query().Get("search")

	categories, pageInfo, err := h.categoryService.List(r.Context(), userID, search, page)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithPage(w, r, "Categories retrieved", categories, pageInfo)
}

// My handles GET /categories/my, listing the user's most recent categories.
func (h *CategoryHandler) My(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	categories, err := h.categoryService.ListRecent(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Categories retrieved", categories)
}

// Search handles GET /categories/search. The search term is required.
func (h *CategoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	search := r.URL.Query().Get("search")
	if search == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing search parameter")
		return
	}

	page := parsePagination(r)
	categories, pageInfo, err := h.categoryService.List(r.Context(), userID, search, page)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithPage(w, r, "Categories retrieved", categories, pageInfo)
}

// Get handles GET /categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	categoryID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(r.Context(), userID, categoryID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Category retrieved", category)
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	category, err := h.categoryService.Create(r.Context(), userID, service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, "Category created successfully", category)
}

// Update handles PUT /categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	categoryID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	category, err := h.categoryService.Update(r.Context(), userID, categoryID, service.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Category updated successfully", category)
}

// Delete handles DELETE /categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	categoryID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(r.Context(), userID, categoryID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Category deleted successfully", nil)
}

// Stats handles GET /categories/{id}/stats.
func (h *CategoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	categoryID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.categoryService.Stats(r.Context(), userID, categoryID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Category statistics retrieved", stats)
}
