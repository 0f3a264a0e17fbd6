package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
)

// Request/response payloads for the HTTP surface. Validation tags mirror
// the domain rules so malformed input is rejected before it reaches the
// services.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse carries the authenticated user and their token pair.
type AuthResponse struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresAt    string       `json:"expires_at,omitempty"`
}

// RefreshTokenResponse carries a fresh token pair.
type RefreshTokenResponse struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateTaskRequest defines the payload for task creation.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *uuid.UUID `json:"category_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
}

// UpdateTaskRequest defines the payload for task updates. Absent fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// UpdateTaskStatusRequest defines the payload for the status patch endpoint.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
}

// UpdateTaskPriorityRequest defines the payload for the priority patch endpoint.
type UpdateTaskPriorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH URGENT"`
}

// AssignTaskRequest defines the payload for assigning or unassigning a user.
type AssignTaskRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// CollaborateRequest defines the payload for adding a collaborator.
type CollaborateRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role"    validate:"omitempty,oneof=VIEWER EDITOR ADMIN"`
}

// RemoveCollaboratorRequest defines the payload for removing a collaborator.
type RemoveCollaboratorRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// CreateCategoryRequest defines the payload for category creation.
type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color"       validate:"omitempty,hexcolor"`
}

// UpdateCategoryRequest defines the payload for category updates. Absent
// fields are left unchanged.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color"       validate:"omitempty,hexcolor"`
}

// UpdateUserRequest defines the payload for account updates. Absent
// fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Avatar   *string `json:"avatar"   validate:"omitempty,url"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// CustomReportRequest defines the payload for the custom report endpoint.
type CustomReportRequest struct {
	ReportType string     `json:"reportType" validate:"required,oneof=status category performance productivity collaboration"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	GroupBy    string     `json:"groupBy"    validate:"omitempty,oneof=day week month"`
}
