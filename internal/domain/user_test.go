package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("ana@example.com", "Ana", "correct-horse-battery")
		require.NoError(t, err)

		assert.Equal(t, "ana@example.com", user.Email)
		assert.Equal(t, "Ana", user.Name)
		assert.False(t, user.CreatedAt.IsZero())
	})

	tests := []struct {
		name     string
		email    string
		userName string
		password string
		wantErr  error
	}{
		{"empty email", "", "Ana", "correct-horse-battery", ErrEmptyEmail},
		{"malformed email", "ana@", "Ana", "correct-horse-battery", ErrInvalidEmail},
		{"missing domain dot", "ana@localhost", "Ana", "correct-horse-battery", ErrInvalidEmail},
		{"empty name", "ana@example.com", " ", "correct-horse-battery", ErrEmptyName},
		{"short password", "ana@example.com", "Ana", "short", ErrPasswordTooShort},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.email, tc.userName, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateLoadedFromStore(t *testing.T) {
	t.Parallel()

	user, err := NewUser("ana@example.com", "Ana", "correct-horse-battery")
	require.NoError(t, err)

	// A user loaded from the store has no plaintext password, only a hash.
	user.Password = ""
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}
