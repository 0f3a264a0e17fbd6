package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/pagination"
	"github.com/g-celente/case-watch-back/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func ownedTask(ownerID uuid.UUID) *domain.TaskWithRelations {
	return &domain.TaskWithRelations{
		Task: domain.Task{
			ID:        uuid.New(),
			Title:     "Review contract",
			Status:    domain.TaskStatusPending,
			Priority:  domain.TaskPriorityMedium,
			OwnerID:   ownerID,
			CreatedAt: fixedNow().Add(-24 * time.Hour),
			UpdatedAt: fixedNow().Add(-24 * time.Hour),
		},
		Owner:         domain.UserSummary{ID: ownerID, Name: "Owner"},
		Assignees:     []domain.UserSummary{},
		Collaborators: []domain.Collaborator{},
	}
}

func newTaskService(
	t *testing.T,
) (*TaskServiceImpl, *MockTaskStore, *MockCategoryStore, *MockUserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	taskStore := new(MockTaskStore)
	categoryStore := new(MockCategoryStore)
	userStore := new(MockUserStore)

	svc := NewTaskService(taskStore, categoryStore, userStore, db, testLogger())
	svc.now = fixedNow

	return svc, taskStore, categoryStore, userStore, dbMock
}

func TestTaskServiceGet(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("owner can read", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, _, _ := newTaskService(t)
		task := ownedTask(ownerID)
		taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)

		got, err := svc.Get(context.Background(), ownerID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
	})

	t.Run("assignee can read", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, _, _ := newTaskService(t)
		assigneeID := uuid.New()
		task := ownedTask(ownerID)
		task.Assignees = []domain.UserSummary{{ID: assigneeID, Name: "Assignee"}}
		taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)

		_, err := svc.Get(context.Background(), assigneeID, task.ID)
		assert.NoError(t, err)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, _, _ := newTaskService(t)
		task := ownedTask(ownerID)
		taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)

		_, err := svc.Get(context.Background(), uuid.New(), task.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing task maps to not found", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, _, _ := newTaskService(t)
		taskID := uuid.New()
		taskStore.On("GetByID", mock.Anything, taskID).Return(nil, store.ErrTaskNotFound)

		_, err := svc.Get(context.Background(), ownerID, taskID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("past due date rejected before any store call", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, _, _ := newTaskService(t)
		past := fixedNow().Add(-time.Hour)

		_, err := svc.Create(context.Background(), ownerID, CreateTaskInput{
			Title:   "Late task",
			DueDate: &past,
		})
		assert.ErrorIs(t, err, ErrValidation)
		taskStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("category owned by another user is forbidden", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, categoryStore, _, _ := newTaskService(t)
		categoryID := uuid.New()
		categoryStore.On("GetByID", mock.Anything, categoryID).Return(&domain.Category{
			ID:     categoryID,
			Name:   "Work",
			UserID: uuid.New(),
		}, nil)

		_, err := svc.Create(context.Background(), ownerID, CreateTaskInput{
			Title:      "Task",
			CategoryID: &categoryID,
		})
		assert.ErrorIs(t, err, ErrForbidden)
		taskStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing category is a validation failure", func(t *testing.T) {
		t.Parallel()

		svc, _, categoryStore, _, _ := newTaskService(t)
		categoryID := uuid.New()
		categoryStore.On("GetByID", mock.Anything, categoryID).
			Return(nil, store.ErrCategoryNotFound)

		_, err := svc.Create(context.Background(), ownerID, CreateTaskInput{
			Title:      "Task",
			CategoryID: &categoryID,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("owner cannot be the initial assignee", func(t *testing.T) {
		t.Parallel()

		svc, _, _, _, _ := newTaskService(t)
		assignee := ownerID

		_, err := svc.Create(context.Background(), ownerID, CreateTaskInput{
			Title:      "Task",
			AssigneeID: &assignee,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("creates task with initial assignee in one transaction", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, userStore, dbMock := newTaskService(t)
		assigneeID := uuid.New()

		userStore.On("GetByID", mock.Anything, assigneeID).
			Return(&domain.User{ID: assigneeID, Email: "a@example.com", Name: "A"}, nil)

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		var createdID uuid.UUID
		taskStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).
			Run(func(args mock.Arguments) {
				createdID = args.Get(1).(*domain.Task).ID
			}).
			Return(nil)
		taskStore.On("Assign", mock.Anything, mock.AnythingOfType("uuid.UUID"), assigneeID).
			Return(nil)
		taskStore.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
			Return(ownedTask(ownerID), nil)

		_, err := svc.Create(context.Background(), ownerID, CreateTaskInput{
			Title:      "Task",
			AssigneeID: &assigneeID,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, createdID)
		assert.NoError(t, dbMock.ExpectationsWereMet())
		taskStore.AssertExpectations(t)
	})

	t.Run("empty title is a validation failure", func(t *testing.T) {
		t.Parallel()

		svc, _, _, _, _ := newTaskService(t)

		_, err := svc.Create(context.Background(), ownerID, CreateTaskInput{})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("non-owner is forbidden", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, _, _ := newTaskService(t)
		task := ownedTask(ownerID)
		taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)

		title := "New title"
		_, err := svc.Update(context.Background(), uuid.New(), task.ID, UpdateTaskInput{
			Title: &title,
		})
		assert.ErrorIs(t, err, ErrForbidden)
		taskStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, _, _ := newTaskService(t)
		task := ownedTask(ownerID)
		taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)

		bad := domain.TaskStatus("DONE")
		_, err := svc.Update(context.Background(), ownerID, task.ID, UpdateTaskInput{
			Status: &bad,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("past due date rejected unless completing", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, _, _ := newTaskService(t)
		task := ownedTask(ownerID)
		taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)

		past := fixedNow().Add(-time.Hour)
		_, err := svc.Update(context.Background(), ownerID, task.ID, UpdateTaskInput{
			DueDate: &past,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("completing accepts a past due date", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, _, _ := newTaskService(t)
		task := ownedTask(ownerID)
		taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)

		completed := domain.TaskStatusCompleted
		past := fixedNow().Add(-time.Hour)

		taskStore.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.Task) bool {
			return u.Status == domain.TaskStatusCompleted && u.DueDate != nil
		})).Return(nil)

		_, err := svc.Update(context.Background(), ownerID, task.ID, UpdateTaskInput{
			Status:  &completed,
			DueDate: &past,
		})
		assert.NoError(t, err)
	})
}

func TestTaskServiceAssign(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("duplicate assignment maps to conflict", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, userStore, _ := newTaskService(t)
		task := ownedTask(ownerID)
		assigneeID := uuid.New()

		taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		userStore.On("GetByID", mock.Anything, assigneeID).
			Return(&domain.User{ID: assigneeID, Email: "a@example.com", Name: "A"}, nil)
		taskStore.On("Assign", mock.Anything, task.ID, assigneeID).
			Return(store.ErrAlreadyAssigned)

		err := svc.Assign(context.Background(), ownerID, task.ID, assigneeID)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("missing assignee is a validation failure", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, userStore, _ := newTaskService(t)
		task := ownedTask(ownerID)
		assigneeID := uuid.New()

		taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		userStore.On("GetByID", mock.Anything, assigneeID).Return(nil, store.ErrUserNotFound)

		err := svc.Assign(context.Background(), ownerID, task.ID, assigneeID)
		assert.ErrorIs(t, err, ErrValidation)
		taskStore.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskServiceAddCollaborator(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("invalid role rejected before any store call", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, _, _ := newTaskService(t)

		err := svc.AddCollaborator(
			context.Background(), ownerID, uuid.New(), uuid.New(), "OWNER")
		assert.ErrorIs(t, err, ErrValidation)
		taskStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("duplicate collaboration maps to conflict", func(t *testing.T) {
		t.Parallel()

		svc, taskStore, _, userStore, _ := newTaskService(t)
		task := ownedTask(ownerID)
		userID := uuid.New()

		taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		userStore.On("GetByID", mock.Anything, userID).
			Return(&domain.User{ID: userID, Email: "c@example.com", Name: "C"}, nil)
		taskStore.On("AddCollaborator", mock.Anything, task.ID, userID, domain.RoleEditor).
			Return(store.ErrAlreadyCollaborator)

		err := svc.AddCollaborator(context.Background(), ownerID, task.ID, userID, domain.RoleEditor)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestTaskServiceUpdateStatus(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newTaskService(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), "FINISHED")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTaskServiceList(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	svc, taskStore, _, _, _ := newTaskService(t)

	task := ownedTask(ownerID)
	taskStore.On("List", mock.Anything, mock.MatchedBy(func(f store.TaskFilter) bool {
		return f.OwnerID == ownerID && f.Limit == 10 && f.Offset == 10
	})).Return([]*domain.TaskWithRelations{task}, 25, nil)

	page := pagination.Clamp(2, 10)
	tasks, info, err := svc.List(context.Background(), ownerID, TaskQuery{}, page)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 25, info.TotalItems)
	assert.True(t, info.HasPreviousPage)
}

func TestTaskServiceStats(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	svc, taskStore, _, _, _ := newTaskService(t)

	taskStore.On("CountByStatus", mock.Anything, ownerID, domain.TimeRange{}).
		Return(map[domain.TaskStatus]int{
			domain.TaskStatusPending:   3,
			domain.TaskStatusCompleted: 7,
		}, nil)
	taskStore.On("CountByPriority", mock.Anything, ownerID, domain.TimeRange{}).
		Return(map[domain.TaskPriority]int{domain.TaskPriorityHigh: 4}, nil)
	taskStore.On("CountOverdue", mock.Anything, ownerID).Return(2, nil)

	stats, err := svc.Stats(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ByStatus[domain.TaskStatusPending])
	assert.Equal(t, 4, stats.ByPriority[domain.TaskPriorityHigh])
	assert.Equal(t, 2, stats.Overdue)
}
