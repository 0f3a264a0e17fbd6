package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/g-celente/case-watch-back/internal/api/shared"
	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/pagination"
	"github.com/g-celente/case-watch-back/internal/report"
	"github.com/g-celente/case-watch-back/internal/service"
	"github.com/g-celente/case-watch-back/internal/store"
)

// Test helpers shared by the handler tests: service mocks, request
// builders, and envelope decoding.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// authedRequest builds a request carrying the given user ID in its
// context, the way the auth middleware would.
func authedRequest(method, target string, body string, userID uuid.UUID) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
		req = req.WithContext(ctx)
	}
	return req
}

// decodeEnvelope unmarshals a recorded response body into the envelope.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) shared.Response {
	t.Helper()
	var resp shared.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// MockTaskService is a testify mock of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	query service.TaskQuery,
	page pagination.Params,
) ([]*domain.TaskWithRelations, pagination.PageInfo, error) {
	args := m.Called(ctx, ownerID, query, page)
	tasks, _ := args.Get(0).([]*domain.TaskWithRelations)
	info, _ := args.Get(1).(pagination.PageInfo)
	return tasks, info, args.Error(2)
}

func (m *MockTaskService) Get(ctx context.Context, viewerID, taskID uuid.UUID) (*domain.TaskWithRelations, error) {
	args := m.Called(ctx, viewerID, taskID)
	task, _ := args.Get(0).(*domain.TaskWithRelations)
	return task, args.Error(1)
}

func (m *MockTaskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.TaskWithRelations, error) {
	args := m.Called(ctx, ownerID, input)
	task, _ := args.Get(0).(*domain.TaskWithRelations)
	return task, args.Error(1)
}

func (m *MockTaskService) Update(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	input service.UpdateTaskInput,
) (*domain.TaskWithRelations, error) {
	args := m.Called(ctx, actorID, taskID, input)
	task, _ := args.Get(0).(*domain.TaskWithRelations)
	return task, args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, actorID, taskID uuid.UUID) error {
	return m.Called(ctx, actorID, taskID).Error(0)
}

func (m *MockTaskService) Assign(ctx context.Context, actorID, taskID, assigneeID uuid.UUID) error {
	return m.Called(ctx, actorID, taskID, assigneeID).Error(0)
}

func (m *MockTaskService) Unassign(ctx context.Context, actorID, taskID, assigneeID uuid.UUID) error {
	return m.Called(ctx, actorID, taskID, assigneeID).Error(0)
}

func (m *MockTaskService) AddCollaborator(
	ctx context.Context,
	actorID, taskID, userID uuid.UUID,
	role domain.CollaborationRole,
) error {
	return m.Called(ctx, actorID, taskID, userID, role).Error(0)
}

func (m *MockTaskService) RemoveCollaborator(ctx context.Context, actorID, taskID, userID uuid.UUID) error {
	return m.Called(ctx, actorID, taskID, userID).Error(0)
}

func (m *MockTaskService) UpdateStatus(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.TaskWithRelations, error) {
	args := m.Called(ctx, actorID, taskID, status)
	task, _ := args.Get(0).(*domain.TaskWithRelations)
	return task, args.Error(1)
}

func (m *MockTaskService) UpdatePriority(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	priority domain.TaskPriority,
) (*domain.TaskWithRelations, error) {
	args := m.Called(ctx, actorID, taskID, priority)
	task, _ := args.Get(0).(*domain.TaskWithRelations)
	return task, args.Error(1)
}

func (m *MockTaskService) Stats(ctx context.Context, ownerID uuid.UUID) (service.TaskStats, error) {
	args := m.Called(ctx, ownerID)
	stats, _ := args.Get(0).(service.TaskStats)
	return stats, args.Error(1)
}

// MockCategoryService is a testify mock of service.CategoryService.
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	search string,
	page pagination.Params,
) ([]*domain.Category, pagination.PageInfo, error) {
	args := m.Called(ctx, ownerID, search, page)
	categories, _ := args.Get(0).([]*domain.Category)
	info, _ := args.Get(1).(pagination.PageInfo)
	return categories, info, args.Error(2)
}

func (m *MockCategoryService) Get(ctx context.Context, actorID, categoryID uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, actorID, categoryID)
	category, _ := args.Get(0).(*domain.Category)
	return category, args.Error(1)
}

func (m *MockCategoryService) ListRecent(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	args := m.Called(ctx, ownerID)
	categories, _ := args.Get(0).([]*domain.Category)
	return categories, args.Error(1)
}

func (m *MockCategoryService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input service.CreateCategoryInput,
) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, input)
	category, _ := args.Get(0).(*domain.Category)
	return category, args.Error(1)
}

func (m *MockCategoryService) Update(
	ctx context.Context,
	actorID, categoryID uuid.UUID,
	input service.UpdateCategoryInput,
) (*domain.Category, error) {
	args := m.Called(ctx, actorID, categoryID, input)
	category, _ := args.Get(0).(*domain.Category)
	return category, args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, actorID, categoryID uuid.UUID) error {
	return m.Called(ctx, actorID, categoryID).Error(0)
}

func (m *MockCategoryService) Stats(ctx context.Context, actorID, categoryID uuid.UUID) (store.CategoryStats, error) {
	args := m.Called(ctx, actorID, categoryID)
	stats, _ := args.Get(0).(store.CategoryStats)
	return stats, args.Error(1)
}

// MockUserService is a testify mock of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, page pagination.Params) ([]*domain.User, pagination.PageInfo, error) {
	args := m.Called(ctx, page)
	users, _ := args.Get(0).([]*domain.User)
	info, _ := args.Get(1).(pagination.PageInfo)
	return users, info, args.Error(2)
}

func (m *MockUserService) Get(ctx context.Context, userID uuid.UUID) (*service.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*service.UserProfile)
	return profile, args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, email, name, password string) (*domain.User, error) {
	args := m.Called(ctx, email, name, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) Update(
	ctx context.Context,
	actorID, userID uuid.UUID,
	input service.UpdateUserInput,
) (*domain.User, error) {
	args := m.Called(ctx, actorID, userID, input)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	return m.Called(ctx, actorID, userID).Error(0)
}

// MockReportService is a testify mock of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) TasksByStatus(
	ctx context.Context,
	userID uuid.UUID,
	rng domain.TimeRange,
) (report.StatusReport, error) {
	args := m.Called(ctx, userID, rng)
	rep, _ := args.Get(0).(report.StatusReport)
	return rep, args.Error(1)
}

func (m *MockReportService) TasksByCategory(
	ctx context.Context,
	userID uuid.UUID,
	rng domain.TimeRange,
) (report.CategoryReport, error) {
	args := m.Called(ctx, userID, rng)
	rep, _ := args.Get(0).(report.CategoryReport)
	return rep, args.Error(1)
}

func (m *MockReportService) Productivity(
	ctx context.Context,
	userID uuid.UUID,
	groupBy string,
	rng domain.TimeRange,
) (report.ProductivityReport, error) {
	args := m.Called(ctx, userID, groupBy, rng)
	rep, _ := args.Get(0).(report.ProductivityReport)
	return rep, args.Error(1)
}

func (m *MockReportService) Collaboration(
	ctx context.Context,
	userID uuid.UUID,
	rng domain.TimeRange,
) (report.CollaborationReport, error) {
	args := m.Called(ctx, userID, rng)
	rep, _ := args.Get(0).(report.CollaborationReport)
	return rep, args.Error(1)
}

func (m *MockReportService) Performance(
	ctx context.Context,
	subjectID uuid.UUID,
	rng domain.TimeRange,
) (report.PerformanceReport, error) {
	args := m.Called(ctx, subjectID, rng)
	rep, _ := args.Get(0).(report.PerformanceReport)
	return rep, args.Error(1)
}

func (m *MockReportService) Dashboard(ctx context.Context, userID uuid.UUID) (report.Dashboard, error) {
	args := m.Called(ctx, userID)
	rep, _ := args.Get(0).(report.Dashboard)
	return rep, args.Error(1)
}
