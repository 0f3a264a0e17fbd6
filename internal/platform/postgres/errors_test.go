package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g-celente/case-watch-back/internal/store"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: nil,
		},
		{
			name:     "no rows maps to not found",
			err:      sql.ErrNoRows,
			expected: store.ErrNotFound,
		},
		{
			name:     "wrapped no rows maps to not found",
			err:      fmt.Errorf("query failed: %w", sql.ErrNoRows),
			expected: store.ErrNotFound,
		},
		{
			name:     "unique violation maps to duplicate",
			err:      pgError(uniqueViolationCode, "users_email_key"),
			expected: store.ErrDuplicate,
		},
		{
			name:     "foreign key violation maps to invalid entity",
			err:      pgError(foreignKeyViolationCode, "tasks_owner_id_fkey"),
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "check violation maps to invalid entity",
			err:      pgError(checkViolationCode, "tasks_status_check"),
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "not null violation maps to invalid entity",
			err:      pgError(notNullViolationCode, ""),
			expected: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tt.err)
			if tt.expected == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.expected)
		})
	}

	t.Run("unmapped errors pass through", func(t *testing.T) {
		t.Parallel()

		original := errors.New("connection reset")
		assert.Equal(t, original, MapError(original))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(pgError(uniqueViolationCode, "users_email_key")))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert failed: %w", pgError(uniqueViolationCode, ""))))
	assert.False(t, IsUniqueViolation(pgError(foreignKeyViolationCode, "")))
	assert.False(t, IsUniqueViolation(errors.New("not a pg error")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsForeignKeyViolation(pgError(foreignKeyViolationCode, "tasks_owner_id_fkey")))
	assert.False(t, IsForeignKeyViolation(pgError(uniqueViolationCode, "")))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected passes", func(t *testing.T) {
		t.Parallel()

		err := CheckRowsAffected(sqlmock.NewResult(0, 1), "task")
		assert.NoError(t, err)
	})

	t.Run("zero rows returns not found with entity name", func(t *testing.T) {
		t.Parallel()

		err := CheckRowsAffected(sqlmock.NewResult(0, 0), "task")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "task")
	})

	t.Run("zero rows without entity name returns bare not found", func(t *testing.T) {
		t.Parallel()

		err := CheckRowsAffected(sqlmock.NewResult(0, 0), "")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nil result is an error", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, CheckRowsAffected(nil, "task"))
	})
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	uniqueErr := pgError(uniqueViolationCode, "categories_user_id_name_key")

	t.Run("specific error wins", func(t *testing.T) {
		t.Parallel()

		err := MapUniqueViolation(uniqueErr, "category", "", store.ErrCategoryNameExists)
		assert.ErrorIs(t, err, store.ErrCategoryNameExists)
	})

	t.Run("entity name builds message", func(t *testing.T) {
		t.Parallel()

		err := MapUniqueViolation(uniqueErr, "category", "", nil)
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.Contains(t, err.Error(), "category already exists")
	})

	t.Run("non-unique errors pass through", func(t *testing.T) {
		t.Parallel()

		original := errors.New("something else")
		assert.Equal(t, original, MapUniqueViolation(original, "category", "", nil))
	})
}
