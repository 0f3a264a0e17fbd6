package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/api/shared"
	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/service"
)

// TaskHandler handles task CRUD, assignment, and collaboration endpoints.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

// List handles GET /tasks with optional filters and pagination.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query, err := parseTaskQuery(r)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	h.respondWithList(w, r, userID, query)
}

// My handles GET /tasks/my, listing only the tasks the user owns.
func (h *TaskHandler) My(w http.ResponseWriter, r *http.Request) {
	h.List(w, r)
}

// Search handles GET /tasks/search. The search term is required.
func (h *TaskHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query, err := parseTaskQuery(r)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	if query.Search == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing search parameter")
		return
	}

	h.respondWithList(w, r, userID, query)
}

// Overdue handles GET /tasks/overdue.
func (h *TaskHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query, err := parseTaskQuery(r)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	query.Overdue = true

	h.respondWithList(w, r, userID, query)
}

// ByStatus handles GET /tasks/status/{status}.
func (h *TaskHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	status := domain.TaskStatus(chi.URLParam(r, "status"))
	if !status.IsValid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status parameter")
		return
	}

	query, err := parseTaskQuery(r)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	query.Status = status

	h.respondWithList(w, r, userID, query)
}

// Stats handles GET /tasks/stats.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.taskService.Stats(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Task statistics retrieved", stats)
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, taskID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Task retrieved", task)
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, "Task created successfully", task)
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	input := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.Update(r.Context(), userID, taskID, input)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Task updated successfully", task)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Task deleted successfully", nil)
}

// Assign handles POST /tasks/{id}/assign.
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AssignTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	if err := h.taskService.Assign(r.Context(), userID, taskID, req.UserID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Task assigned successfully", nil)
}

// Unassign handles POST /tasks/{id}/unassign.
func (h *TaskHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AssignTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	if err := h.taskService.Unassign(r.Context(), userID, taskID, req.UserID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Task unassigned successfully", nil)
}

// Collaborate handles POST /tasks/{id}/collaborate.
func (h *TaskHandler) Collaborate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req CollaborateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	role := domain.CollaborationRole(req.Role)
	if req.Role == "" {
		role = domain.RoleViewer
	}

	if err := h.taskService.AddCollaborator(r.Context(), userID, taskID, req.UserID, role); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Collaborator added successfully", nil)
}

// RemoveCollaborator handles DELETE /tasks/{id}/collaborate.
func (h *TaskHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req RemoveCollaboratorRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	if err := h.taskService.RemoveCollaborator(r.Context(), userID, taskID, req.UserID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Collaborator removed successfully", nil)
}

// UpdateStatus handles PATCH /tasks/{id}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), userID, taskID, domain.TaskStatus(req.Status))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Task status updated", task)
}

// UpdatePriority handles PATCH /tasks/{id}/priority.
func (h *TaskHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskPriorityRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	task, err := h.taskService.UpdatePriority(r.Context(), userID, taskID, domain.TaskPriority(req.Priority))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Task priority updated", task)
}

func (h *TaskHandler) respondWithList(
	w http.ResponseWriter,
	r *http.Request,
	userID uuid.UUID,
	query service.TaskQuery,
) {
	page := parsePagination(r)
	tasks, pageInfo, err := h.taskService.List(r.Context(), userID, query, page)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithPage(w, r, "Tasks retrieved", tasks, pageInfo)
}
