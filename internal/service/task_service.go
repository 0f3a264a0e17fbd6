package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/pagination"
	"github.com/g-celente/case-watch-back/internal/store"
)

// CreateTaskInput carries the fields accepted when creating a task.
// AssigneeID optionally records an initial assignment alongside the
// creation in the same transaction.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	DueDate     *time.Time
	CategoryID  *uuid.UUID
	AssigneeID  *uuid.UUID
}

// UpdateTaskInput carries the fields accepted when updating a task.
// Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
	CategoryID  *uuid.UUID
}

// TaskStats aggregates an owner's task counts for the stats endpoint.
type TaskStats struct {
	ByStatus   map[domain.TaskStatus]int   `json:"byStatus"`
	ByPriority map[domain.TaskPriority]int `json:"byPriority"`
	Overdue    int                         `json:"overdue"`
}

// TaskQuery narrows a task listing at the service boundary. The handler
// fills it from query parameters; the service combines it with the
// viewer's scope and pagination.
type TaskQuery struct {
	Search     string
	Status     domain.TaskStatus
	Priority   domain.TaskPriority
	CategoryID *uuid.UUID
	AssigneeID *uuid.UUID
	Overdue    bool
	CreatedAt  domain.TimeRange
	SortBy     string
	SortOrder  string
}

// TaskService provides task operations including assignment and
// collaboration management. Mutating operations are restricted to the
// task's owner; reads are open to the owner, assignees, and collaborators.
type TaskService interface {
	// List retrieves the viewer's tasks matching the query, paginated.
	List(
		ctx context.Context,
		ownerID uuid.UUID,
		query TaskQuery,
		page pagination.Params,
	) ([]*domain.TaskWithRelations, pagination.PageInfo, error)

	// Get retrieves a single task with its relations hydrated.
	// Returns ErrForbidden when the viewer has no access to the task.
	Get(ctx context.Context, viewerID, taskID uuid.UUID) (*domain.TaskWithRelations, error)

	// Create creates a task owned by the given user, optionally recording
	// an initial assignee in the same transaction.
	Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*domain.TaskWithRelations, error)

	// Update applies the non-nil input fields to an existing task.
	Update(
		ctx context.Context,
		actorID, taskID uuid.UUID,
		input UpdateTaskInput,
	) (*domain.TaskWithRelations, error)

	// Delete removes a task. Assignments and collaborations cascade.
	Delete(ctx context.Context, actorID, taskID uuid.UUID) error

	// Assign records an assignment of the task to a user.
	Assign(ctx context.Context, actorID, taskID, assigneeID uuid.UUID) error

	// Unassign removes an assignment.
	Unassign(ctx context.Context, actorID, taskID, assigneeID uuid.UUID) error

	// AddCollaborator records a collaboration with the given role.
	AddCollaborator(
		ctx context.Context,
		actorID, taskID, userID uuid.UUID,
		role domain.CollaborationRole,
	) error

	// RemoveCollaborator removes a collaboration.
	RemoveCollaborator(ctx context.Context, actorID, taskID, userID uuid.UUID) error

	// UpdateStatus changes only the task's status.
	UpdateStatus(
		ctx context.Context,
		actorID, taskID uuid.UUID,
		status domain.TaskStatus,
	) (*domain.TaskWithRelations, error)

	// UpdatePriority changes only the task's priority.
	UpdatePriority(
		ctx context.Context,
		actorID, taskID uuid.UUID,
		priority domain.TaskPriority,
	) (*domain.TaskWithRelations, error)

	// Stats returns the owner's status/priority/overdue counts.
	Stats(ctx context.Context, ownerID uuid.UUID) (TaskStats, error)
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore     store.TaskStore
	categoryStore store.CategoryStore
	userStore     store.UserStore
	db            *sql.DB
	logger        *slog.Logger
	now           func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskStore store.TaskStore,
	categoryStore store.CategoryStore,
	userStore store.UserStore,
	db *sql.DB,
	logger *slog.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore:     taskStore,
		categoryStore: categoryStore,
		userStore:     userStore,
		db:            db,
		logger:        logger.With("component", "task_service"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// List retrieves the owner's tasks matching the query, paginated.
func (s *TaskServiceImpl) List(
	ctx context.Context,
	ownerID uuid.UUID,
	query TaskQuery,
	page pagination.Params,
) ([]*domain.TaskWithRelations, pagination.PageInfo, error) {
	filter := store.TaskFilter{
		OwnerID:    ownerID,
		Search:     query.Search,
		Status:     query.Status,
		Priority:   query.Priority,
		CategoryID: query.CategoryID,
		AssigneeID: query.AssigneeID,
		Overdue:    query.Overdue,
		CreatedAt:  query.CreatedAt,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
		Limit:      page.Limit,
		Offset:     page.Offset,
	}

	tasks, total, err := s.taskStore.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"owner_id", ownerID)
		return nil, pagination.PageInfo{}, fromStore(fmt.Errorf("failed to list tasks: %w", err))
	}

	return tasks, pagination.Describe(page.Page, page.Limit, total), nil
}

// Get retrieves a single task. The owner, assignees, and collaborators
// may read it; everyone else gets ErrForbidden.
func (s *TaskServiceImpl) Get(
	ctx context.Context,
	viewerID, taskID uuid.UUID,
) (*domain.TaskWithRelations, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to retrieve task",
				"error", err,
				"task_id", taskID)
		}
		return nil, fromStore(fmt.Errorf("failed to retrieve task: %w", err))
	}

	if !task.AccessibleBy(viewerID) {
		s.logger.Debug("task access denied",
			"task_id", taskID,
			"viewer_id", viewerID)
		return nil, fmt.Errorf("%w: task belongs to another user", ErrForbidden)
	}

	return task, nil
}

// Create creates a task owned by the given user. The category, when set,
// must exist and belong to the owner; the due date, when set, must lie in
// the future; the initial assignee, when set, must exist and must not be
// the owner. Task creation and the initial assignment commit atomically.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateTaskInput,
) (*domain.TaskWithRelations, error) {
	if input.DueDate != nil && !input.DueDate.After(s.now()) {
		return nil, fmt.Errorf("%w: due date must be in the future", ErrValidation)
	}

	if input.CategoryID != nil {
		if err := s.checkCategoryOwnership(ctx, ownerID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	if input.AssigneeID != nil {
		if *input.AssigneeID == ownerID {
			return nil, fmt.Errorf("%w: a task cannot be assigned to its owner", ErrValidation)
		}
		if _, err := s.userStore.GetByID(ctx, *input.AssigneeID); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return nil, fmt.Errorf("%w: assignee does not exist", ErrValidation)
			}
			return nil, fmt.Errorf("failed to verify assignee: %w", err)
		}
	}

	task, err := domain.NewTask(
		ownerID,
		input.Title,
		input.Description,
		input.Priority,
		input.DueDate,
		input.CategoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		if err := txStore.Create(ctx, task); err != nil {
			return err
		}

		if input.AssigneeID != nil {
			return txStore.Assign(ctx, task.ID, *input.AssigneeID)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"owner_id", ownerID)
		return nil, fromStore(fmt.Errorf("failed to create task: %w", err))
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"owner_id", ownerID)

	return s.taskStore.GetByID(ctx, task.ID)
}

// Update applies the non-nil input fields to an existing task. Only the
// owner may update. A new due date must be in the future unless the task
// is being marked COMPLETED.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	input UpdateTaskInput,
) (*domain.TaskWithRelations, error) {
	current, err := s.requireOwnedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	task := current.Task
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *input.Status)
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, *input.Priority)
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		if task.Status != domain.TaskStatusCompleted && !input.DueDate.After(s.now()) {
			return nil, fmt.Errorf("%w: due date must be in the future", ErrValidation)
		}
		task.DueDate = input.DueDate
	}
	if input.CategoryID != nil {
		if err := s.checkCategoryOwnership(ctx, actorID, *input.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = input.CategoryID
	}
	task.UpdatedAt = s.now()

	if err := s.taskStore.Update(ctx, &task); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", taskID)
		return nil, fromStore(fmt.Errorf("failed to update task: %w", err))
	}

	s.logger.Info("task updated",
		"task_id", taskID,
		"actor_id", actorID)

	return s.taskStore.GetByID(ctx, taskID)
}

// Delete removes a task. Only the owner may delete.
func (s *TaskServiceImpl) Delete(ctx context.Context, actorID, taskID uuid.UUID) error {
	if _, err := s.requireOwnedTask(ctx, actorID, taskID); err != nil {
		return err
	}

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", taskID)
		return fromStore(fmt.Errorf("failed to delete task: %w", err))
	}

	s.logger.Info("task deleted",
		"task_id", taskID,
		"actor_id", actorID)

	return nil
}

// Assign records an assignment of the task to a user. Only the owner may
// assign; the assignee must exist and must not be the owner; assigning
// the same user twice yields ErrConflict.
func (s *TaskServiceImpl) Assign(ctx context.Context, actorID, taskID, assigneeID uuid.UUID) error {
	if _, err := s.requireOwnedTask(ctx, actorID, taskID); err != nil {
		return err
	}

	if assigneeID == actorID {
		return fmt.Errorf("%w: a task cannot be assigned to its owner", ErrValidation)
	}
	if _, err := s.userStore.GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("%w: assignee does not exist", ErrValidation)
		}
		return fmt.Errorf("failed to verify assignee: %w", err)
	}

	if err := s.taskStore.Assign(ctx, taskID, assigneeID); err != nil {
		if !errors.Is(err, store.ErrAlreadyAssigned) {
			s.logger.Error("failed to assign task",
				"error", err,
				"task_id", taskID,
				"assignee_id", assigneeID)
		}
		return fromStore(fmt.Errorf("failed to assign task: %w", err))
	}

	s.logger.Info("task assigned",
		"task_id", taskID,
		"assignee_id", assigneeID)

	return nil
}

// Unassign removes an assignment. Only the owner may unassign.
func (s *TaskServiceImpl) Unassign(ctx context.Context, actorID, taskID, assigneeID uuid.UUID) error {
	if _, err := s.requireOwnedTask(ctx, actorID, taskID); err != nil {
		return err
	}

	if err := s.taskStore.Unassign(ctx, taskID, assigneeID); err != nil {
		return fromStore(fmt.Errorf("failed to unassign task: %w", err))
	}

	s.logger.Info("task unassigned",
		"task_id", taskID,
		"assignee_id", assigneeID)

	return nil
}

// AddCollaborator records a collaboration with the given role. Only the
// owner may add collaborators; the role must be valid; the collaborator
// must exist; adding the same user twice yields ErrConflict.
func (s *TaskServiceImpl) AddCollaborator(
	ctx context.Context,
	actorID, taskID, userID uuid.UUID,
	role domain.CollaborationRole,
) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: unknown collaboration role %q", ErrValidation, role)
	}

	if _, err := s.requireOwnedTask(ctx, actorID, taskID); err != nil {
		return err
	}

	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("%w: collaborator does not exist", ErrValidation)
		}
		return fmt.Errorf("failed to verify collaborator: %w", err)
	}

	if err := s.taskStore.AddCollaborator(ctx, taskID, userID, role); err != nil {
		if !errors.Is(err, store.ErrAlreadyCollaborator) {
			s.logger.Error("failed to add collaborator",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return fromStore(fmt.Errorf("failed to add collaborator: %w", err))
	}

	s.logger.Info("collaborator added",
		"task_id", taskID,
		"user_id", userID,
		"role", role)

	return nil
}

// RemoveCollaborator removes a collaboration. Only the owner may remove.
func (s *TaskServiceImpl) RemoveCollaborator(
	ctx context.Context,
	actorID, taskID, userID uuid.UUID,
) error {
	if _, err := s.requireOwnedTask(ctx, actorID, taskID); err != nil {
		return err
	}

	if err := s.taskStore.RemoveCollaborator(ctx, taskID, userID); err != nil {
		return fromStore(fmt.Errorf("failed to remove collaborator: %w", err))
	}

	s.logger.Info("collaborator removed",
		"task_id", taskID,
		"user_id", userID)

	return nil
}

// UpdateStatus changes only the task's status.
func (s *TaskServiceImpl) UpdateStatus(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.TaskWithRelations, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s.Update(ctx, actorID, taskID, UpdateTaskInput{Status: &status})
}

// UpdatePriority changes only the task's priority.
func (s *TaskServiceImpl) UpdatePriority(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	priority domain.TaskPriority,
) (*domain.TaskWithRelations, error) {
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}
	return s.Update(ctx, actorID, taskID, UpdateTaskInput{Priority: &priority})
}

// Stats returns the owner's status, priority, and overdue counts.
func (s *TaskServiceImpl) Stats(ctx context.Context, ownerID uuid.UUID) (TaskStats, error) {
	byStatus, err := s.taskStore.CountByStatus(ctx, ownerID, domain.TimeRange{})
	if err != nil {
		return TaskStats{}, fmt.Errorf("failed to count tasks by status: %w", err)
	}

	byPriority, err := s.taskStore.CountByPriority(ctx, ownerID, domain.TimeRange{})
	if err != nil {
		return TaskStats{}, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	overdue, err := s.taskStore.CountOverdue(ctx, ownerID)
	if err != nil {
		return TaskStats{}, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	return TaskStats{
		ByStatus:   byStatus,
		ByPriority: byPriority,
		Overdue:    overdue,
	}, nil
}

// requireOwnedTask loads a task and verifies the actor owns it.
func (s *TaskServiceImpl) requireOwnedTask(
	ctx context.Context,
	actorID, taskID uuid.UUID,
) (*domain.TaskWithRelations, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to retrieve task",
				"error", err,
				"task_id", taskID)
		}
		return nil, fromStore(fmt.Errorf("failed to retrieve task: %w", err))
	}

	if !task.CanBeEditedBy(actorID) {
		s.logger.Debug("task mutation denied",
			"task_id", taskID,
			"actor_id", actorID)
		return nil, fmt.Errorf("%w: task belongs to another user", ErrForbidden)
	}

	return task, nil
}

// checkCategoryOwnership verifies the category exists and belongs to the
// given owner. A missing category is reported as a validation failure
// rather than NotFound since the category is a reference on the input.
func (s *TaskServiceImpl) checkCategoryOwnership(
	ctx context.Context,
	ownerID, categoryID uuid.UUID,
) error {
	category, err := s.categoryStore.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return fmt.Errorf("%w: category does not exist", ErrValidation)
		}
		return fmt.Errorf("failed to verify category: %w", err)
	}
	if category.UserID != ownerID {
		return fmt.Errorf("%w: category belongs to another user", ErrForbidden)
	}
	return nil
}
