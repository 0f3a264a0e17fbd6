package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/pagination"
	"github.com/g-celente/case-watch-back/internal/store"
)

func newUserService(t *testing.T) (*UserServiceImpl, *MockUserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userStore := new(MockUserStore)
	svc := NewUserService(userStore, db, testLogger())
	svc.now = fixedNow
	return svc, userStore, dbMock
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Email:          "jane@example.com",
		Name:           "Jane",
		HashedPassword: "$2a$10$hash",
		CreatedAt:      fixedNow(),
		UpdatedAt:      fixedNow(),
	}
}

func TestUserServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates user in a transaction", func(t *testing.T) {
		t.Parallel()

		svc, userStore, dbMock := newUserService(t)
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		userStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.Create(context.Background(), "jane@example.com", "Jane", "password123")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to conflict and rolls back", func(t *testing.T) {
		t.Parallel()

		svc, userStore, dbMock := newUserService(t)
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()
		userStore.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		_, err := svc.Create(context.Background(), "jane@example.com", "Jane", "password123")
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("invalid email rejected before any store call", func(t *testing.T) {
		t.Parallel()

		svc, userStore, _ := newUserService(t)

		_, err := svc.Create(context.Background(), "not-an-email", "Jane", "password123")
		assert.ErrorIs(t, err, ErrValidation)
		userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("short password rejected", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newUserService(t)

		_, err := svc.Create(context.Background(), "jane@example.com", "Jane", "short")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUserServiceGet(t *testing.T) {
	t.Parallel()

	t.Run("returns profile with task counts", func(t *testing.T) {
		t.Parallel()

		svc, userStore, _ := newUserService(t)
		user := sampleUser()

		userStore.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		userStore.On("CountTasks", mock.Anything, user.ID).Return(store.UserTaskCounts{
			Owned:         4,
			Assigned:      2,
			Collaborating: 1,
		}, nil)

		profile, err := svc.Get(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, profile.Email)
		assert.Equal(t, 4, profile.TaskCounts.Owned)
		assert.Equal(t, 2, profile.TaskCounts.Assigned)
		assert.Equal(t, 1, profile.TaskCounts.Collaborating)
	})

	t.Run("missing user maps to not found", func(t *testing.T) {
		t.Parallel()

		svc, userStore, _ := newUserService(t)
		userID := uuid.New()
		userStore.On("GetByID", mock.Anything, userID).Return(nil, store.ErrUserNotFound)

		_, err := svc.Get(context.Background(), userID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("users cannot update other accounts", func(t *testing.T) {
		t.Parallel()

		svc, userStore, _ := newUserService(t)
		name := "Mallory"

		_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateUserInput{
			Name: &name,
		})
		assert.ErrorIs(t, err, ErrForbidden)
		userStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("applies changed fields in a transaction", func(t *testing.T) {
		t.Parallel()

		svc, userStore, dbMock := newUserService(t)
		user := sampleUser()

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		userStore.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		userStore.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Name == "Jane Doe" && u.Email == user.Email
		})).Return(nil)

		name := "Jane Doe"
		updated, err := svc.Update(context.Background(), user.ID, user.ID, UpdateUserInput{
			Name: &name,
		})
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", updated.Name)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("email collision maps to conflict", func(t *testing.T) {
		t.Parallel()

		svc, userStore, dbMock := newUserService(t)
		user := sampleUser()

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()
		userStore.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		userStore.On("Update", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		email := "taken@example.com"
		_, err := svc.Update(context.Background(), user.ID, user.ID, UpdateUserInput{
			Email: &email,
		})
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestUserServiceDelete(t *testing.T) {
	t.Parallel()

	t.Run("users cannot delete other accounts", func(t *testing.T) {
		t.Parallel()

		svc, userStore, _ := newUserService(t)

		err := svc.Delete(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrForbidden)
		userStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes own account", func(t *testing.T) {
		t.Parallel()

		svc, userStore, dbMock := newUserService(t)
		userID := uuid.New()

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		userStore.On("Delete", mock.Anything, userID).Return(nil)

		err := svc.Delete(context.Background(), userID, userID)
		assert.NoError(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestUserServiceList(t *testing.T) {
	t.Parallel()

	svc, userStore, _ := newUserService(t)
	userStore.On("List", mock.Anything, 10, 0).
		Return([]*domain.User{sampleUser(), sampleUser()}, 2, nil)

	users, info, err := svc.List(context.Background(), pagination.Clamp(1, 10))
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 1, info.TotalPages)
}
