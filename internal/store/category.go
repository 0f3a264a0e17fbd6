package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
)

// CategoryStats aggregates the tasks referencing a single category,
// broken down by status.
type CategoryStats struct {
	Total    int                       `json:"total"`
	ByStatus map[domain.TaskStatus]int `json:"byStatus"`
}

// CategoryStore defines the interface for category data persistence.
type CategoryStore interface {
	// Create saves a new category to the store.
	// It handles domain validation internally.
	// Returns ErrCategoryNameExists if the owner already has a category
	// with the same name.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// FindByName retrieves an owner's category by exact name.
	// Returns ErrCategoryNotFound if no such category exists.
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Category, error)

	// ListByOwner retrieves an owner's categories ordered by creation time
	// (newest first), optionally filtered by a case-insensitive name search,
	// along with the total matching count for pagination.
	ListByOwner(
		ctx context.Context,
		ownerID uuid.UUID,
		search string,
		limit, offset int,
	) ([]*domain.Category, int, error)

	// ListRecent retrieves the owner's most recently created categories,
	// capped at limit.
	ListRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.Category, error)

	// Update saves changes to an existing category.
	// Returns ErrCategoryNotFound if the category does not exist.
	// Returns ErrCategoryNameExists if renaming to a name the owner
	// already uses on another category.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category from the store by its ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	// Callers are expected to verify no tasks reference the category first;
	// the schema restricts deletion of referenced categories.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountTasks returns the number of tasks referencing the category.
	CountTasks(ctx context.Context, categoryID uuid.UUID) (int, error)

	// Stats returns the total and per-status task counts for the category.
	Stats(ctx context.Context, categoryID uuid.UUID) (CategoryStats, error)

	// WithTx returns a new CategoryStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) CategoryStore
}
