package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/platform/logger"
	"github.com/g-celente/case-watch-back/internal/store"
)

// taskSortColumns whitelists the sortable columns for task listings.
var taskSortColumns = map[string]string{
	"created_at": "t.created_at",
	"updated_at": "t.updated_at",
	"title":      "t.title",
	"due_date":   "t.due_date",
	"priority":   "t.priority",
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger

	// now is injectable for overdue-clause tests.
	now func() time.Time
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity when the owner or category does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, title, description, status, priority, due_date, owner_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		nullString(task.Description),
		task.Status,
		task.Priority,
		task.DueDate,
		task.OwnerID,
		task.CategoryID,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("owner_id", task.OwnerID.String()))
			return fmt.Errorf("%w: referenced owner or category not found: %v",
				store.ErrInvalidEntity, err)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// The returned task carries its owner, category, assignee and collaborator
// relations. Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskWithRelations, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving task by ID", slog.String("task_id", id.String()))

	query := taskSelectColumns + `
		FROM tasks t
		JOIN users u ON u.id = t.owner_id
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1
	`

	task, err := scanTaskWithRelations(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	if err := s.hydrateParticipants(ctx, []*domain.TaskWithRelations{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// List implements store.TaskStore.List
// The second return value is the count of tasks matching the filter
// regardless of Limit/Offset.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	filter store.TaskFilter,
) ([]*domain.TaskWithRelations, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args, err := buildTaskFilter(filter, s.now())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	orderBy, err := buildTaskOrder(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	log.Debug("listing tasks",
		slog.String("owner_id", filter.OwnerID.String()),
		slog.Int("limit", filter.Limit),
		slog.Int("offset", filter.Offset))

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks t ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, 0, err
	}

	query := taskSelectColumns + `
		FROM tasks t
		JOIN users u ON u.id = t.owner_id
		LEFT JOIN categories c ON c.id = t.category_id
		` + where + `
		` + orderBy
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, 0, err
	}
	defer closeRows(rows, log)

	tasks := []*domain.TaskWithRelations{}
	for rows.Next() {
		task, err := scanTaskWithRelations(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, 0, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning task rows", slog.String("error", err.Error()))
		return nil, 0, err
	}

	if err := s.hydrateParticipants(ctx, tasks); err != nil {
		return nil, 0, err
	}

	log.Debug("listed tasks", slog.Int("count", len(tasks)), slog.Int("total", total))
	return tasks, total, nil
}

// Update implements store.TaskStore.Update
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, category_id = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		nullString(task.Description),
		task.Status,
		task.Priority,
		task.DueDate,
		task.CategoryID,
		task.UpdatedAt,
		task.ID,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task update",
				slog.String("task_id", task.ID.String()))
			return fmt.Errorf("%w: referenced category not found: %v",
				store.ErrInvalidEntity, err)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for update", slog.String("task_id", task.ID.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// Assignments and collaborations go with the task via ON DELETE CASCADE.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for delete", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// Assign implements store.TaskStore.Assign
// Returns store.ErrAlreadyAssigned when the pair exists and
// store.ErrInvalidEntity when the task or user does not.
func (s *PostgresTaskStore) Assign(ctx context.Context, taskID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO task_assignments (task_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, taskID, userID, time.Now().UTC())
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate task assignment",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return fmt.Errorf("%w: %v", store.ErrAlreadyAssigned, err)
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: task or user not found: %v", store.ErrInvalidEntity, err)
		}
		log.Error("failed to assign task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("task assigned",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// Unassign implements store.TaskStore.Unassign
// Returns store.ErrAssignmentNotFound if the pair does not exist.
func (s *PostgresTaskStore) Unassign(ctx context.Context, taskID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM task_assignments WHERE task_id = $1 AND user_id = $2`,
		taskID,
		userID,
	)
	if err != nil {
		log.Error("failed to unassign task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return err
	}

	if err := CheckRowsAffected(result, "task assignment"); err != nil {
		return store.ErrAssignmentNotFound
	}

	log.Info("task unassigned",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// AddCollaborator implements store.TaskStore.AddCollaborator
// Returns store.ErrAlreadyCollaborator when the pair exists.
func (s *PostgresTaskStore) AddCollaborator(
	ctx context.Context,
	taskID, userID uuid.UUID,
	role domain.CollaborationRole,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !role.IsValid() {
		return fmt.Errorf("%w: invalid collaboration role %q", store.ErrInvalidEntity, role)
	}

	query := `
		INSERT INTO task_collaborations (task_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, taskID, userID, role, time.Now().UTC())
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate task collaboration",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return fmt.Errorf("%w: %v", store.ErrAlreadyCollaborator, err)
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: task or user not found: %v", store.ErrInvalidEntity, err)
		}
		log.Error("failed to add collaborator",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("collaborator added",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()),
		slog.String("role", string(role)))
	return nil
}

// RemoveCollaborator implements store.TaskStore.RemoveCollaborator
// Returns store.ErrCollaborationNotFound if the pair does not exist.
func (s *PostgresTaskStore) RemoveCollaborator(ctx context.Context, taskID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM task_collaborations WHERE task_id = $1 AND user_id = $2`,
		taskID,
		userID,
	)
	if err != nil {
		log.Error("failed to remove collaborator",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return err
	}

	if err := CheckRowsAffected(result, "task collaboration"); err != nil {
		return store.ErrCollaborationNotFound
	}

	log.Info("collaborator removed",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(
	ctx context.Context,
	ownerID uuid.UUID,
	rng domain.TimeRange,
) (map[domain.TaskStatus]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	counts := map[domain.TaskStatus]int{}
	err := s.countGrouped(ctx, "status", ownerID, rng, func(key string, count int) {
		counts[domain.TaskStatus(key)] = count
	})
	if err != nil {
		log.Error("failed to count tasks by status",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	return counts, nil
}

// CountByPriority implements store.TaskStore.CountByPriority
func (s *PostgresTaskStore) CountByPriority(
	ctx context.Context,
	ownerID uuid.UUID,
	rng domain.TimeRange,
) (map[domain.TaskPriority]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	counts := map[domain.TaskPriority]int{}
	err := s.countGrouped(ctx, "priority", ownerID, rng, func(key string, count int) {
		counts[domain.TaskPriority(key)] = count
	})
	if err != nil {
		log.Error("failed to count tasks by priority",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	return counts, nil
}

// countGrouped runs a GROUP BY aggregation over the owner's tasks on the
// given column, constrained to the creation-time range.
func (s *PostgresTaskStore) countGrouped(
	ctx context.Context,
	column string,
	ownerID uuid.UUID,
	rng domain.TimeRange,
	visit func(key string, count int),
) error {
	where := `WHERE owner_id = $1`
	args := []any{ownerID}
	if rng.From != nil {
		args = append(args, *rng.From)
		where += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if rng.To != nil {
		args = append(args, *rng.To)
		where += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}

	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM tasks %s GROUP BY %s`, column, where, column)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer closeRows(rows, s.logger)

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		visit(key, count)
	}
	return rows.Err()
}

// CountOverdue implements store.TaskStore.CountOverdue
func (s *PostgresTaskStore) CountOverdue(ctx context.Context, ownerID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM tasks
		WHERE owner_id = $1 AND due_date IS NOT NULL AND due_date < $2 AND status != $3
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, ownerID, s.now(), domain.TaskStatusCompleted).Scan(&count)
	if err != nil {
		log.Error("failed to count overdue tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return 0, err
	}

	return count, nil
}

// WithTx implements store.TaskStore.WithTx
// It returns a copy of the store bound to the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
		now:    s.now,
	}
}

// taskSelectColumns is the shared projection for hydrated task queries:
// the task itself, its owner summary, and its optional category summary.
const taskSelectColumns = `
	SELECT t.id, t.title, t.description, t.status, t.priority, t.due_date,
	       t.owner_id, t.category_id, t.created_at, t.updated_at,
	       u.id, u.email, u.name,
	       c.id, c.name, c.color`

// buildTaskFilter renders the WHERE clause for a task listing. The overdue
// clause compares due dates against the supplied instant so callers control
// the clock.
func buildTaskFilter(filter store.TaskFilter, now time.Time) (string, []any, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return "", nil, fmt.Errorf("invalid status filter %q", filter.Status)
	}
	if filter.Priority != "" && !filter.Priority.IsValid() {
		return "", nil, fmt.Errorf("invalid priority filter %q", filter.Priority)
	}

	clauses := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OwnerID != uuid.Nil {
		clauses = append(clauses, "t.owner_id = "+arg(filter.OwnerID))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		clauses = append(clauses, "(t.title ILIKE "+p+" OR t.description ILIKE "+p+")")
	}
	if filter.Status != "" {
		clauses = append(clauses, "t.status = "+arg(string(filter.Status)))
	}
	if filter.Priority != "" {
		clauses = append(clauses, "t.priority = "+arg(string(filter.Priority)))
	}
	if filter.CategoryID != nil {
		clauses = append(clauses, "t.category_id = "+arg(*filter.CategoryID))
	}
	if filter.AssigneeID != nil {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM task_assignments a WHERE a.task_id = t.id AND a.user_id = "+arg(*filter.AssigneeID)+")")
	}
	if filter.Overdue {
		clauses = append(clauses,
			"t.due_date IS NOT NULL AND t.due_date < "+arg(now)+" AND t.status != 'COMPLETED'")
	}
	if filter.CreatedAt.From != nil {
		clauses = append(clauses, "t.created_at >= "+arg(*filter.CreatedAt.From))
	}
	if filter.CreatedAt.To != nil {
		clauses = append(clauses, "t.created_at <= "+arg(*filter.CreatedAt.To))
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, nil
}

// buildTaskOrder renders the ORDER BY clause from the filter's whitelisted
// sort column and direction.
func buildTaskOrder(filter store.TaskFilter) (string, error) {
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := taskSortColumns[sortBy]
	if !ok {
		return "", fmt.Errorf("invalid sort column %q", filter.SortBy)
	}

	direction := strings.ToLower(filter.SortOrder)
	switch direction {
	case "":
		direction = "desc"
	case "asc", "desc":
	default:
		return "", fmt.Errorf("invalid sort order %q", filter.SortOrder)
	}

	return fmt.Sprintf("ORDER BY %s %s", column, strings.ToUpper(direction)), nil
}

// scanTaskWithRelations reads one joined task row in the taskSelectColumns order.
func scanTaskWithRelations(row rowScanner) (*domain.TaskWithRelations, error) {
	var task domain.TaskWithRelations
	var description sql.NullString
	var status, priority string
	var catID uuid.NullUUID
	var catName, catColor sql.NullString

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&priority,
		&task.DueDate,
		&task.OwnerID,
		&task.CategoryID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.Owner.ID,
		&task.Owner.Email,
		&task.Owner.Name,
		&catID,
		&catName,
		&catColor,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	if catID.Valid {
		task.Category = &domain.CategorySummary{
			ID:    catID.UUID,
			Name:  catName.String,
			Color: catColor.String,
		}
	}
	task.Assignees = []domain.UserSummary{}
	task.Collaborators = []domain.Collaborator{}
	return &task, nil
}

// hydrateParticipants batch-loads assignees and collaborators for the given
// tasks and attaches them in place.
func (s *PostgresTaskStore) hydrateParticipants(
	ctx context.Context,
	tasks []*domain.TaskWithRelations,
) error {
	if len(tasks) == 0 {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	byID := make(map[uuid.UUID]*domain.TaskWithRelations, len(tasks))
	placeholders := make([]string, 0, len(tasks))
	args := make([]any, 0, len(tasks))
	for i, task := range tasks {
		byID[task.ID] = task
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, task.ID)
	}
	in := strings.Join(placeholders, ", ")

	assigneeQuery := fmt.Sprintf(`
		SELECT a.task_id, u.id, u.email, u.name
		FROM task_assignments a
		JOIN users u ON u.id = a.user_id
		WHERE a.task_id IN (%s)
		ORDER BY a.created_at
	`, in)

	rows, err := s.db.QueryContext(ctx, assigneeQuery, args...)
	if err != nil {
		log.Error("failed to query task assignees", slog.String("error", err.Error()))
		return err
	}
	for rows.Next() {
		var taskID uuid.UUID
		var assignee domain.UserSummary
		if err := rows.Scan(&taskID, &assignee.ID, &assignee.Email, &assignee.Name); err != nil {
			closeRows(rows, log)
			return err
		}
		if task, ok := byID[taskID]; ok {
			task.Assignees = append(task.Assignees, assignee)
		}
	}
	if err := rows.Err(); err != nil {
		closeRows(rows, log)
		return err
	}
	closeRows(rows, log)

	collaboratorQuery := fmt.Sprintf(`
		SELECT c.task_id, c.role, u.id, u.email, u.name
		FROM task_collaborations c
		JOIN users u ON u.id = c.user_id
		WHERE c.task_id IN (%s)
		ORDER BY c.created_at
	`, in)

	rows, err = s.db.QueryContext(ctx, collaboratorQuery, args...)
	if err != nil {
		log.Error("failed to query task collaborators", slog.String("error", err.Error()))
		return err
	}
	defer closeRows(rows, log)
	for rows.Next() {
		var taskID uuid.UUID
		var role string
		var collaborator domain.Collaborator
		if err := rows.Scan(&taskID, &role, &collaborator.ID, &collaborator.Email, &collaborator.Name); err != nil {
			return err
		}
		collaborator.Role = domain.CollaborationRole(role)
		if task, ok := byID[taskID]; ok {
			task.Collaborators = append(task.Collaborators, collaborator)
		}
	}
	return rows.Err()
}
