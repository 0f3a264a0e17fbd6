package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskOwnerIDEmpty is returned when a task's owner ID is empty or nil.
	ErrTaskOwnerIDEmpty = errors.New("task owner ID cannot be empty")
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// TaskStatuses lists all recognized statuses in a stable order.
var TaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

// statusReportFields maps each status to the field name used in report
// payloads. A fixed mapping keeps unknown status strings from silently
// becoming report fields.
var statusReportFields = map[TaskStatus]string{
	TaskStatusPending:    "pending",
	TaskStatusInProgress: "inProgress",
	TaskStatusCompleted:  "completed",
	TaskStatusCancelled:  "cancelled",
}

// IsValid reports whether the status is one of the recognized values.
func (s TaskStatus) IsValid() bool {
	_, ok := statusReportFields[s]
	return ok
}

// ReportField returns the report payload field name for the status
// ("pending", "inProgress", "completed", "cancelled") and false for
// unrecognized statuses.
func (s TaskStatus) ReportField() (string, bool) {
	field, ok := statusReportFields[s]
	return field, ok
}

// Progress returns the rough completion percentage implied by the status.
func (s TaskStatus) Progress() int {
	switch s {
	case TaskStatusInProgress:
		return 50
	case TaskStatusCompleted:
		return 100
	default:
		return 0
	}
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// TaskPriorities lists all recognized priorities from lowest to highest.
var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityUrgent,
}

var priorityWeights = map[TaskPriority]int{
	TaskPriorityLow:    1,
	TaskPriorityMedium: 2,
	TaskPriorityHigh:   3,
	TaskPriorityUrgent: 4,
}

// IsValid reports whether the priority is one of the recognized values.
func (p TaskPriority) IsValid() bool {
	_, ok := priorityWeights[p]
	return ok
}

// Weight returns the ordinal weight of the priority (LOW=1 .. URGENT=4).
// Unrecognized priorities weigh the same as MEDIUM.
func (p TaskPriority) Weight() int {
	if w, ok := priorityWeights[p]; ok {
		return w
	}
	return priorityWeights[TaskPriorityMedium]
}

// Task is the central entity of the system. The owner reference is
// immutable after creation; only the owner may mutate or delete a task.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	CategoryID  *uuid.UUID   `json:"category_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. Status defaults to
// PENDING and priority to MEDIUM when left empty.
// Returns an error if validation fails.
func NewTask(
	ownerID uuid.UUID,
	title, description string,
	priority TaskPriority,
	dueDate *time.Time,
	categoryID *uuid.UUID,
) (*Task, error) {
	if priority == "" {
		priority = TaskPriorityMedium
	}

	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		Priority:    priority,
		DueDate:     dueDate,
		OwnerID:     ownerID,
		CategoryID:  categoryID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTaskTitleEmpty
	}

	if t.OwnerID == uuid.Nil {
		return ErrTaskOwnerIDEmpty
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	return nil
}

// IsOverdue reports whether the task's due date has passed at the given
// instant and the task has not been completed. Tasks without a due date
// are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return now.After(*t.DueDate) && t.Status != TaskStatusCompleted
}

// CanBeEditedBy reports whether the given user may mutate or delete the
// task. Mutation is owner-only; assignees and collaborators get read
// access through TaskWithRelations.AccessibleBy.
func (t *Task) CanBeEditedBy(userID uuid.UUID) bool {
	return t.OwnerID == userID
}
