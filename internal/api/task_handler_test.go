package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/pagination"
	"github.com/g-celente/case-watch-back/internal/service"
)

// withPathParam attaches a chi route parameter to the request context.
func withPathParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func sampleTaskWithRelations(ownerID uuid.UUID) *domain.TaskWithRelations {
	return &domain.TaskWithRelations{
		Task: domain.Task{
			ID:        uuid.New(),
			Title:     "Prepare customer demo",
			Status:    domain.TaskStatusPending,
			Priority:  domain.TaskPriorityMedium,
			OwnerID:   ownerID,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		},
		Owner: domain.UserSummary{ID: ownerID, Name: "Ana"},
	}
}

func TestTaskHandlerList(t *testing.T) {
	t.Parallel()

	t.Run("returns paginated tasks with filters applied", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		tasks := []*domain.TaskWithRelations{sampleTaskWithRelations(userID)}

		svc := new(MockTaskService)
		svc.On("List", mock.Anything, userID,
			mock.MatchedBy(func(q service.TaskQuery) bool {
				return q.Status == domain.TaskStatusPending && q.Search == "demo"
			}),
			pagination.Params{Page: 2, Limit: 5, Offset: 5},
		).Return(tasks, pagination.Describe(2, 5, 11), nil)

		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodGet, "/api/tasks?status=PENDING&search=demo&page=2&limit=5", "", userID)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.NotNil(t, resp.Pagination)
		assert.Equal(t, 2, resp.Pagination.CurrentPage)
		assert.Equal(t, 11, resp.Pagination.TotalItems)
		svc.AssertExpectations(t)
	})

	t.Run("malformed category filter returns bad request", func(t *testing.T) {
		t.Parallel()

		svc := new(MockTaskService)
		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodGet, "/api/tasks?categoryId=not-a-uuid", "", uuid.New())
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing auth context returns unauthorized", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(new(MockTaskService), testLogger())

		req := authedRequest(http.MethodGet, "/api/tasks", "", uuid.Nil)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTaskHandlerSearch(t *testing.T) {
	t.Parallel()

	t.Run("missing search term returns bad request", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(new(MockTaskService), testLogger())

		req := authedRequest(http.MethodGet, "/api/tasks/search", "", uuid.New())
		rec := httptest.NewRecorder()
		handler.Search(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandlerOverdue(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := new(MockTaskService)
	svc.On("List", mock.Anything, userID,
		mock.MatchedBy(func(q service.TaskQuery) bool { return q.Overdue }),
		mock.Anything,
	).Return([]*domain.TaskWithRelations{}, pagination.Describe(1, 10, 0), nil)

	handler := NewTaskHandler(svc, testLogger())

	req := authedRequest(http.MethodGet, "/api/tasks/overdue", "", userID)
	rec := httptest.NewRecorder()
	handler.Overdue(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestTaskHandlerByStatus(t *testing.T) {
	t.Parallel()

	t.Run("invalid status returns bad request", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(new(MockTaskService), testLogger())

		req := authedRequest(http.MethodGet, "/api/tasks/status/DONE", "", uuid.New())
		req = withPathParam(req, "status", "DONE")
		rec := httptest.NewRecorder()
		handler.ByStatus(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid status filters the listing", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		svc := new(MockTaskService)
		svc.On("List", mock.Anything, userID,
			mock.MatchedBy(func(q service.TaskQuery) bool { return q.Status == domain.TaskStatusCompleted }),
			mock.Anything,
		).Return([]*domain.TaskWithRelations{}, pagination.Describe(1, 10, 0), nil)

		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodGet, "/api/tasks/status/COMPLETED", "", userID)
		req = withPathParam(req, "status", "COMPLETED")
		rec := httptest.NewRecorder()
		handler.ByStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestTaskHandlerGet(t *testing.T) {
	t.Parallel()

	t.Run("returns the task", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		task := sampleTaskWithRelations(userID)

		svc := new(MockTaskService)
		svc.On("Get", mock.Anything, userID, task.ID).Return(task, nil)

		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodGet, "/api/tasks/"+task.ID.String(), "", userID)
		req = withPathParam(req, "id", task.ID.String())
		rec := httptest.NewRecorder()
		handler.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		data, ok := decodeEnvelope(t, rec).Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Prepare customer demo", data["title"])
	})

	t.Run("foreign task returns forbidden", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		taskID := uuid.New()

		svc := new(MockTaskService)
		svc.On("Get", mock.Anything, userID, taskID).
			Return(nil, fmt.Errorf("%w: no access", service.ErrForbidden))

		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodGet, "/api/tasks/"+taskID.String(), "", userID)
		req = withPathParam(req, "id", taskID.String())
		rec := httptest.NewRecorder()
		handler.Get(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed id returns bad request", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(new(MockTaskService), testLogger())

		req := authedRequest(http.MethodGet, "/api/tasks/nope", "", uuid.New())
		req = withPathParam(req, "id", "nope")
		rec := httptest.NewRecorder()
		handler.Get(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandlerCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates a task from a valid payload", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		created := sampleTaskWithRelations(userID)

		svc := new(MockTaskService)
		svc.On("Create", mock.Anything, userID,
			mock.MatchedBy(func(in service.CreateTaskInput) bool {
				return in.Title == "Prepare customer demo" && in.Priority == domain.TaskPriorityHigh
			}),
		).Return(created, nil)

		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodPost, "/api/tasks",
			`{"title":"Prepare customer demo","priority":"HIGH"}`, userID)
		rec := httptest.NewRecorder()
		handler.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing title returns validation errors", func(t *testing.T) {
		t.Parallel()

		svc := new(MockTaskService)
		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodPost, "/api/tasks", `{"priority":"HIGH"}`, uuid.New())
		rec := httptest.NewRecorder()
		handler.Create(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeEnvelope(t, rec)
		errs, ok := resp.Errors.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, errs, "title")
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown priority is rejected before the service", func(t *testing.T) {
		t.Parallel()

		svc := new(MockTaskService)
		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodPost, "/api/tasks",
			`{"title":"T","priority":"CRITICAL"}`, uuid.New())
		rec := httptest.NewRecorder()
		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskHandlerAssign(t *testing.T) {
	t.Parallel()

	t.Run("duplicate assignment returns conflict", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		taskID := uuid.New()
		assigneeID := uuid.New()

		svc := new(MockTaskService)
		svc.On("Assign", mock.Anything, userID, taskID, assigneeID).
			Return(fmt.Errorf("%w: already assigned", service.ErrConflict))

		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodPost, "/api/tasks/"+taskID.String()+"/assign",
			fmt.Sprintf(`{"user_id":%q}`, assigneeID), userID)
		req = withPathParam(req, "id", taskID.String())
		rec := httptest.NewRecorder()
		handler.Assign(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("successful assignment", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		taskID := uuid.New()
		assigneeID := uuid.New()

		svc := new(MockTaskService)
		svc.On("Assign", mock.Anything, userID, taskID, assigneeID).Return(nil)

		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodPost, "/api/tasks/"+taskID.String()+"/assign",
			fmt.Sprintf(`{"user_id":%q}`, assigneeID), userID)
		req = withPathParam(req, "id", taskID.String())
		rec := httptest.NewRecorder()
		handler.Assign(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestTaskHandlerCollaborate(t *testing.T) {
	t.Parallel()

	t.Run("role defaults to viewer", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		taskID := uuid.New()
		collaboratorID := uuid.New()

		svc := new(MockTaskService)
		svc.On("AddCollaborator", mock.Anything, userID, taskID, collaboratorID, domain.RoleViewer).
			Return(nil)

		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodPost, "/api/tasks/"+taskID.String()+"/collaborate",
			fmt.Sprintf(`{"user_id":%q}`, collaboratorID), userID)
		req = withPathParam(req, "id", taskID.String())
		rec := httptest.NewRecorder()
		handler.Collaborate(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown role is rejected before the service", func(t *testing.T) {
		t.Parallel()

		svc := new(MockTaskService)
		handler := NewTaskHandler(svc, testLogger())

		taskID := uuid.New()
		req := authedRequest(http.MethodPost, "/api/tasks/"+taskID.String()+"/collaborate",
			fmt.Sprintf(`{"user_id":%q,"role":"OWNER"}`, uuid.New()), uuid.New())
		req = withPathParam(req, "id", taskID.String())
		rec := httptest.NewRecorder()
		handler.Collaborate(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "AddCollaborator",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskHandlerUpdateStatus(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	task := sampleTaskWithRelations(userID)
	task.Status = domain.TaskStatusCompleted

	svc := new(MockTaskService)
	svc.On("UpdateStatus", mock.Anything, userID, task.ID, domain.TaskStatusCompleted).
		Return(task, nil)

	handler := NewTaskHandler(svc, testLogger())

	req := authedRequest(http.MethodPatch, "/api/tasks/"+task.ID.String()+"/status",
		`{"status":"COMPLETED"}`, userID)
	req = withPathParam(req, "id", task.ID.String())
	rec := httptest.NewRecorder()
	handler.UpdateStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeEnvelope(t, rec).Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "COMPLETED", data["status"])
}

func TestTaskHandlerDelete(t *testing.T) {
	t.Parallel()

	t.Run("missing task returns not found", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		taskID := uuid.New()

		svc := new(MockTaskService)
		svc.On("Delete", mock.Anything, userID, taskID).
			Return(fmt.Errorf("%w: task", service.ErrNotFound))

		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodDelete, "/api/tasks/"+taskID.String(), "", userID)
		req = withPathParam(req, "id", taskID.String())
		rec := httptest.NewRecorder()
		handler.Delete(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("successful delete", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		taskID := uuid.New()

		svc := new(MockTaskService)
		svc.On("Delete", mock.Anything, userID, taskID).Return(nil)

		handler := NewTaskHandler(svc, testLogger())

		req := authedRequest(http.MethodDelete, "/api/tasks/"+taskID.String(), "", userID)
		req = withPathParam(req, "id", taskID.String())
		rec := httptest.NewRecorder()
		handler.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeEnvelope(t, rec).Success)
	})
}

func TestTaskHandlerStats(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	stats := service.TaskStats{
		ByStatus:   map[domain.TaskStatus]int{domain.TaskStatusPending: 2},
		ByPriority: map[domain.TaskPriority]int{domain.TaskPriorityHigh: 1},
		Overdue:    1,
	}

	svc := new(MockTaskService)
	svc.On("Stats", mock.Anything, userID).Return(stats, nil)

	handler := NewTaskHandler(svc, testLogger())

	req := authedRequest(http.MethodGet, "/api/tasks/stats", "", userID)
	rec := httptest.NewRecorder()
	handler.Stats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeEnvelope(t, rec).Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["overdue"])
}
