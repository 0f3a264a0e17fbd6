package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/store"
)

// MockTaskStore mocks the store.TaskStore interface.
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskWithRelations, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskWithRelations), args.Error(1)
}

func (m *MockTaskStore) List(
	ctx context.Context,
	filter store.TaskFilter,
) ([]*domain.TaskWithRelations, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.TaskWithRelations), args.Int(1), args.Error(2)
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskStore) Assign(ctx context.Context, taskID, userID uuid.UUID) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}

func (m *MockTaskStore) Unassign(ctx context.Context, taskID, userID uuid.UUID) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}

func (m *MockTaskStore) AddCollaborator(
	ctx context.Context,
	taskID, userID uuid.UUID,
	role domain.CollaborationRole,
) error {
	args := m.Called(ctx, taskID, userID, role)
	return args.Error(0)
}

func (m *MockTaskStore) RemoveCollaborator(ctx context.Context, taskID, userID uuid.UUID) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}

func (m *MockTaskStore) CountByStatus(
	ctx context.Context,
	ownerID uuid.UUID,
	rng domain.TimeRange,
) (map[domain.TaskStatus]int, error) {
	args := m.Called(ctx, ownerID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.TaskStatus]int), args.Error(1)
}

func (m *MockTaskStore) CountByPriority(
	ctx context.Context,
	ownerID uuid.UUID,
	rng domain.TimeRange,
) (map[domain.TaskPriority]int, error) {
	args := m.Called(ctx, ownerID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.TaskPriority]int), args.Error(1)
}

func (m *MockTaskStore) CountOverdue(ctx context.Context, ownerID uuid.UUID) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// MockCategoryStore mocks the store.CategoryStore interface.
type MockCategoryStore struct {
	mock.Mock
}

func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStore) FindByName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	search string,
	limit, offset int,
) ([]*domain.Category, int, error) {
	args := m.Called(ctx, ownerID, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Category), args.Int(1), args.Error(2)
}

func (m *MockCategoryStore) ListRecent(
	ctx context.Context,
	ownerID uuid.UUID,
	limit int,
) ([]*domain.Category, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryStore) CountTasks(ctx context.Context, categoryID uuid.UUID) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryStore) Stats(
	ctx context.Context,
	categoryID uuid.UUID,
) (store.CategoryStats, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(store.CategoryStats), args.Error(1)
}

func (m *MockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}

// MockUserStore mocks the store.UserStore interface.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) List(
	ctx context.Context,
	limit, offset int,
) ([]*domain.User, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.User), args.Int(1), args.Error(2)
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) CountTasks(
	ctx context.Context,
	userID uuid.UUID,
) (store.UserTaskCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(store.UserTaskCounts), args.Error(1)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
