package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
)

// TaskFilter narrows and orders a task listing. All set criteria are
// AND-combined. Zero values mean "no constraint": the uuid.Nil OwnerID,
// empty Search/Status/Priority, nil CategoryID/AssigneeID and a zero
// CreatedAt range all match every task. Limit <= 0 disables pagination,
// which report queries rely on to see the full task set.
type TaskFilter struct {
	OwnerID    uuid.UUID
	Search     string
	Status     domain.TaskStatus
	Priority   domain.TaskPriority
	CategoryID *uuid.UUID
	AssigneeID *uuid.UUID

	// Overdue restricts to tasks with a due date in the past that are not
	// COMPLETED. Combined with Status=COMPLETED it matches nothing.
	Overdue bool

	// CreatedAt bounds task creation time; both bounds apply together.
	CreatedAt domain.TimeRange

	// SortBy must be one of created_at, updated_at, title, due_date,
	// priority; empty means created_at. SortOrder is asc or desc,
	// defaulting to desc. Implementations reject anything else.
	SortBy    string
	SortOrder string

	Limit  int
	Offset int
}

// TaskStore defines the interface for task data persistence, including
// assignment and collaboration pairs.
type TaskStore interface {
	// Create saves a new task to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task with its owner, category, assignee and
	// collaborator relations hydrated.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskWithRelations, error)

	// List retrieves hydrated tasks matching the filter along with the total
	// matching count (ignoring Limit/Offset) for pagination.
	// Returns an empty slice if nothing matches.
	List(ctx context.Context, filter TaskFilter) ([]*domain.TaskWithRelations, int, error)

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns validation errors if the task data is invalid.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	//
	// Assignments and collaborations are removed through ON DELETE CASCADE
	// foreign keys; the implementation does not delete them explicitly.
	Delete(ctx context.Context, id uuid.UUID) error

	// Assign records the (task, user) assignment pair.
	// Returns ErrAlreadyAssigned if the pair already exists.
	Assign(ctx context.Context, taskID, userID uuid.UUID) error

	// Unassign removes the (task, user) assignment pair.
	// Returns ErrAssignmentNotFound if the pair does not exist.
	Unassign(ctx context.Context, taskID, userID uuid.UUID) error

	// AddCollaborator records the (task, user) collaboration with a role.
	// Returns ErrAlreadyCollaborator if the pair already exists.
	AddCollaborator(ctx context.Context, taskID, userID uuid.UUID, role domain.CollaborationRole) error

	// RemoveCollaborator removes the (task, user) collaboration pair.
	// Returns ErrCollaborationNotFound if the pair does not exist.
	RemoveCollaborator(ctx context.Context, taskID, userID uuid.UUID) error

	// CountByStatus returns per-status task counts for an owner within the
	// creation-time range. Statuses with no tasks are absent from the map.
	CountByStatus(ctx context.Context, ownerID uuid.UUID, rng domain.TimeRange) (map[domain.TaskStatus]int, error)

	// CountByPriority returns per-priority task counts for an owner within
	// the creation-time range.
	CountByPriority(ctx context.Context, ownerID uuid.UUID, rng domain.TimeRange) (map[domain.TaskPriority]int, error)

	// CountOverdue returns the number of the owner's tasks whose due date
	// has passed and whose status is not COMPLETED.
	CountOverdue(ctx context.Context, ownerID uuid.UUID) (int, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
