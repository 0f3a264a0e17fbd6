package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category-specific validation errors
var (
	// ErrCategoryIDEmpty is returned when a category ID is empty or nil.
	ErrCategoryIDEmpty = errors.New("category ID cannot be empty")

	// ErrCategoryNameEmpty is returned when a category's name is empty.
	ErrCategoryNameEmpty = errors.New("category name cannot be empty")

	// ErrCategoryUserIDEmpty is returned when a category's owner ID is empty or nil.
	ErrCategoryUserIDEmpty = errors.New("category user ID cannot be empty")
)

// colorPattern matches a 3- or 6-digit hexadecimal color string.
var colorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// Category is a named grouping of tasks owned by exactly one user.
// The name is unique per owner; uniqueness is enforced by the store.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategory creates a new Category owned by the given user.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewCategory(userID uuid.UUID, name, description, color string) (*Category, error) {
	category := &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Color:       color,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
// Returns an error if any field fails validation.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCategoryIDEmpty
	}

	if strings.TrimSpace(c.Name) == "" {
		return ErrCategoryNameEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCategoryUserIDEmpty
	}

	if c.Color != "" && !ValidColor(c.Color) {
		return ErrInvalidColor
	}

	return nil
}

// ValidColor reports whether s is a 3- or 6-digit hexadecimal color string.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// CategorySummary is the reduced category representation inlined into
// hydrated tasks.
type CategorySummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color,omitempty"`
}

// Summary returns the reduced representation of the category.
func (c *Category) Summary() CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name, Color: c.Color}
}
