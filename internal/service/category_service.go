package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/pagination"
	"github.com/g-celente/case-watch-back/internal/store"
)

// recentCategoryCount is the number of categories returned by ListRecent.
const recentCategoryCount = 10

// CreateCategoryInput carries the fields accepted when creating a category.
type CreateCategoryInput struct {
	Name        string
	Description string
	Color       string
}

// UpdateCategoryInput carries the fields accepted when updating a
// category. Nil fields are left unchanged.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Color       *string
}

// CategoryService provides category operations. Categories are private to
// their owner: every operation is scoped to the acting user.
type CategoryService interface {
	// List retrieves the owner's categories, optionally filtered by a
	// name search, paginated.
	List(
		ctx context.Context,
		ownerID uuid.UUID,
		search string,
		page pagination.Params,
	) ([]*domain.Category, pagination.PageInfo, error)

	// Get retrieves a single category.
	// Returns ErrForbidden when it belongs to another user.
	Get(ctx context.Context, actorID, categoryID uuid.UUID) (*domain.Category, error)

	// ListRecent retrieves the owner's most recently created categories.
	ListRecent(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error)

	// Create creates a category for the owner. The name must be unique
	// among the owner's categories.
	Create(ctx context.Context, ownerID uuid.UUID, input CreateCategoryInput) (*domain.Category, error)

	// Update applies the non-nil input fields to an existing category.
	// A rename that collides with another of the owner's categories fails
	// with ErrConflict before anything is written.
	Update(
		ctx context.Context,
		actorID, categoryID uuid.UUID,
		input UpdateCategoryInput,
	) (*domain.Category, error)

	// Delete removes a category. A category still referenced by tasks
	// cannot be deleted and yields ErrConflict.
	Delete(ctx context.Context, actorID, categoryID uuid.UUID) error

	// Stats returns the per-status task counts for a category.
	Stats(ctx context.Context, actorID, categoryID uuid.UUID) (store.CategoryStats, error)
}

// CategoryServiceImpl implements the CategoryService interface.
type CategoryServiceImpl struct {
	categoryStore store.CategoryStore
	logger        *slog.Logger
	now           func() time.Time
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryStore store.CategoryStore, logger *slog.Logger) *CategoryServiceImpl {
	return &CategoryServiceImpl{
		categoryStore: categoryStore,
		logger:        logger.With("component", "category_service"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// List retrieves the owner's categories, paginated.
func (s *CategoryServiceImpl) List(
	ctx context.Context,
	ownerID uuid.UUID,
	search string,
	page pagination.Params,
) ([]*domain.Category, pagination.PageInfo, error) {
	categories, total, err := s.categoryStore.ListByOwner(ctx, ownerID, search, page.Limit, page.Offset)
	if err != nil {
		s.logger.Error("failed to list categories",
			"error", err,
			"owner_id", ownerID)
		return nil, pagination.PageInfo{}, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, pagination.Describe(page.Page, page.Limit, total), nil
}

// Get retrieves a single category owned by the actor.
func (s *CategoryServiceImpl) Get(
	ctx context.Context,
	actorID, categoryID uuid.UUID,
) (*domain.Category, error) {
	return s.requireOwnedCategory(ctx, actorID, categoryID)
}

// ListRecent retrieves the owner's most recently created categories.
func (s *CategoryServiceImpl) ListRecent(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Category, error) {
	categories, err := s.categoryStore.ListRecent(ctx, ownerID, recentCategoryCount)
	if err != nil {
		s.logger.Error("failed to list recent categories",
			"error", err,
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to list recent categories: %w", err)
	}
	return categories, nil
}

// Create creates a category for the owner.
func (s *CategoryServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateCategoryInput,
) (*domain.Category, error) {
	category, err := domain.NewCategory(ownerID, input.Name, input.Description, input.Color)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := s.categoryStore.Create(ctx, category); err != nil {
		if errors.Is(err, store.ErrCategoryNameExists) {
			s.logger.Debug("attempted to create category with existing name",
				"owner_id", ownerID,
				"name", input.Name)
		} else {
			s.logger.Error("failed to create category",
				"error", err,
				"owner_id", ownerID)
		}
		return nil, fromStore(fmt.Errorf("failed to create category: %w", err))
	}

	s.logger.Info("category created",
		"category_id", category.ID,
		"owner_id", ownerID)

	return category, nil
}

// Update applies the non-nil input fields to an existing category. A
// rename is checked against the owner's other categories before anything
// is written, so a conflicting update leaves the store untouched.
func (s *CategoryServiceImpl) Update(
	ctx context.Context,
	actorID, categoryID uuid.UUID,
	input UpdateCategoryInput,
) (*domain.Category, error) {
	category, err := s.requireOwnedCategory(ctx, actorID, categoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != category.Name {
		existing, err := s.categoryStore.FindByName(ctx, actorID, *input.Name)
		switch {
		case err == nil && existing.ID != categoryID:
			s.logger.Debug("category rename collides with existing name",
				"category_id", categoryID,
				"name", *input.Name)
			return nil, fmt.Errorf("%w: a category named %q already exists", ErrConflict, *input.Name)
		case err != nil && !errors.Is(err, store.ErrCategoryNotFound):
			return nil, fmt.Errorf("failed to check category name: %w", err)
		}
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Color != nil {
		category.Color = *input.Color
	}
	category.UpdatedAt = s.now()

	if err := category.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := s.categoryStore.Update(ctx, category); err != nil {
		s.logger.Error("failed to update category",
			"error", err,
			"category_id", categoryID)
		return nil, fromStore(fmt.Errorf("failed to update category: %w", err))
	}

	s.logger.Info("category updated",
		"category_id", categoryID,
		"actor_id", actorID)

	return category, nil
}

// Delete removes a category after verifying no tasks reference it.
func (s *CategoryServiceImpl) Delete(ctx context.Context, actorID, categoryID uuid.UUID) error {
	if _, err := s.requireOwnedCategory(ctx, actorID, categoryID); err != nil {
		return err
	}

	count, err := s.categoryStore.CountTasks(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count category tasks: %w", err)
	}
	if count > 0 {
		s.logger.Debug("attempted to delete category with tasks",
			"category_id", categoryID,
			"task_count", count)
		return fmt.Errorf("%w: category still has %d associated tasks", ErrConflict, count)
	}

	if err := s.categoryStore.Delete(ctx, categoryID); err != nil {
		s.logger.Error("failed to delete category",
			"error", err,
			"category_id", categoryID)
		return fromStore(fmt.Errorf("failed to delete category: %w", err))
	}

	s.logger.Info("category deleted",
		"category_id", categoryID,
		"actor_id", actorID)

	return nil
}

// Stats returns the per-status task counts for a category.
func (s *CategoryServiceImpl) Stats(
	ctx context.Context,
	actorID, categoryID uuid.UUID,
) (store.CategoryStats, error) {
	if _, err := s.requireOwnedCategory(ctx, actorID, categoryID); err != nil {
		return store.CategoryStats{}, err
	}

	stats, err := s.categoryStore.Stats(ctx, categoryID)
	if err != nil {
		s.logger.Error("failed to compute category stats",
			"error", err,
			"category_id", categoryID)
		return store.CategoryStats{}, fmt.Errorf("failed to compute category stats: %w", err)
	}
	return stats, nil
}

// requireOwnedCategory loads a category and verifies the actor owns it.
func (s *CategoryServiceImpl) requireOwnedCategory(
	ctx context.Context,
	actorID, categoryID uuid.UUID,
) (*domain.Category, error) {
	category, err := s.categoryStore.GetByID(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, store.ErrCategoryNotFound) {
			s.logger.Error("failed to retrieve category",
				"error", err,
				"category_id", categoryID)
		}
		return nil, fromStore(fmt.Errorf("failed to retrieve category: %w", err))
	}

	if category.UserID != actorID {
		s.logger.Debug("category access denied",
			"category_id", categoryID,
			"actor_id", actorID)
		return nil, fmt.Errorf("%w: category belongs to another user", ErrForbidden)
	}

	return category, nil
}
