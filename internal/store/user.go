package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
)

// UserTaskCounts aggregates how many tasks a user owns, is assigned to,
// and collaborates on. Used by the user detail endpoint.
type UserTaskCounts struct {
	Owned         int `json:"owned"`
	Assigned      int `json:"assigned"`
	Collaborating int `json:"collaborating"`
}

// UserStore persists user accounts.
type UserStore interface {
	// Create validates the user, hashes its plaintext Password, and inserts
	// it. Returns ErrEmailExists when the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns the user or ErrUserNotFound. The plaintext password
	// is never populated on reads.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns the user or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves users ordered by creation time (newest first) along
	// with the total user count for pagination.
	// Returns an empty slice when the offset is past the end.
	List(ctx context.Context, limit, offset int) ([]*domain.User, int, error)

	// Update writes the complete user row. A non-empty plaintext Password
	// is re-hashed; otherwise the existing HashedPassword must be carried
	// over by the caller. Returns ErrUserNotFound or ErrEmailExists.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes the user and, via FK cascade, their categories, tasks
	// and task relations. Returns ErrUserNotFound for an unknown id.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountTasks returns the owned/assigned/collaborating task counts for a user.
	// Returns zero counts (not an error) for a user with no tasks.
	CountTasks(ctx context.Context, userID uuid.UUID) (UserTaskCounts, error)

	// WithTx returns a store bound to tx, for composing multiple writes
	// inside RunInTransaction.
	WithTx(tx *sql.Tx) UserStore
}
