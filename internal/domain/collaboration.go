package domain

import (
	"time"

	"github.com/google/uuid"
)

// CollaborationRole enumerates the roles a collaborator can hold on a task.
type CollaborationRole string

const (
	RoleViewer CollaborationRole = "VIEWER"
	RoleEditor CollaborationRole = "EDITOR"
	RoleAdmin  CollaborationRole = "ADMIN"
)

// IsValid reports whether the role is one of the recognized values.
func (r CollaborationRole) IsValid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// TaskAssignment joins a task to a user responsible for its execution.
// Each (task, user) pair is unique; the store enforces it.
type TaskAssignment struct {
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCollaboration joins a task to a collaborating user with a role.
// AcceptedAt is nil while the invitation is pending. Each (task, user)
// pair is unique; the store enforces it.
type TaskCollaboration struct {
	TaskID     uuid.UUID         `json:"task_id"`
	UserID     uuid.UUID         `json:"user_id"`
	Role       CollaborationRole `json:"role"`
	AcceptedAt *time.Time        `json:"accepted_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Collaborator is a user summary annotated with its collaboration role,
// as inlined into hydrated tasks.
type Collaborator struct {
	UserSummary
	Role CollaborationRole `json:"role"`
}

// TaskWithRelations is a task hydrated with its owner, category,
// assignees, and collaborators, as produced by the task query layer.
type TaskWithRelations struct {
	Task
	Owner         UserSummary      `json:"owner"`
	Category      *CategorySummary `json:"category,omitempty"`
	Assignees     []UserSummary    `json:"assignees"`
	Collaborators []Collaborator   `json:"collaborators"`
}

// AccessibleBy reports whether the given user may view the task: the
// owner, any assignee, and any collaborator (accepted or not) have
// read access.
func (t *TaskWithRelations) AccessibleBy(userID uuid.UUID) bool {
	if t.OwnerID == userID {
		return true
	}
	for _, a := range t.Assignees {
		if a.ID == userID {
			return true
		}
	}
	for _, c := range t.Collaborators {
		if c.ID == userID {
			return true
		}
	}
	return false
}
