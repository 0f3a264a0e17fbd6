package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/api/shared"
	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/service"
)

// ReportHandler handles the derived reporting endpoints. Every report is
// scoped to the authenticated user's tasks.
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler with the given dependencies.
func NewReportHandler(reportService service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger.With("component", "report_handler"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	dashboard, err := h.reportService.Dashboard(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Dashboard retrieved", dashboard)
}

// TasksByStatus handles GET /reports/tasks-by-status and
// GET /reports/overview/tasks.
func (h *ReportHandler) TasksByStatus(w http.ResponseWriter, r *http.Request) {
	userID, rng, ok := h.reportScope(w, r)
	if !ok {
		return
	}

	rep, err := h.reportService.TasksByStatus(r.Context(), userID, rng)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Status report retrieved", rep)
}

// TasksByCategory handles GET /reports/tasks-by-category and
// GET /reports/overview/categories.
func (h *ReportHandler) TasksByCategory(w http.ResponseWriter, r *http.Request) {
	userID, rng, ok := h.reportScope(w, r)
	if !ok {
		return
	}

	rep, err := h.reportService.TasksByCategory(r.Context(), userID, rng)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Category report retrieved", rep)
}

// UserPerformance handles GET /reports/user-performance and
// GET /reports/overview/performance. The subject defaults to the
// authenticated user and can be overridden with a userId parameter.
func (h *ReportHandler) UserPerformance(w http.ResponseWriter, r *http.Request) {
	userID, rng, ok := h.reportScope(w, r)
	if !ok {
		return
	}

	subjectID := userID
	if override, err := parseOptionalUUID(r, "userId"); err != nil {
		HandleServiceError(w, r, err)
		return
	} else if override != nil {
		subjectID = *override
	}

	rep, err := h.reportService.Performance(r.Context(), subjectID, rng)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Performance report retrieved", rep)
}

// Productivity handles GET /reports/productivity. groupBy defaults to day.
func (h *ReportHandler) Productivity(w http.ResponseWriter, r *http.Request) {
	userID, rng, ok := h.reportScope(w, r)
	if !ok {
		return
	}

	groupBy := r.URL.Query().Get("groupBy")
	if groupBy == "" {
		groupBy = "day"
	}

	rep, err := h.reportService.Productivity(r.Context(), userID, groupBy, rng)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Productivity report retrieved", rep)
}

// WeeklyProductivity handles GET /reports/productivity/weekly: the last
// seven days bucketed per day.
func (h *ReportHandler) WeeklyProductivity(w http.ResponseWriter, r *http.Request) {
	h.cannedProductivity(w, r, 7*24*time.Hour, "day")
}

// MonthlyProductivity handles GET /reports/productivity/monthly: the last
// thirty days bucketed per week.
func (h *ReportHandler) MonthlyProductivity(w http.ResponseWriter, r *http.Request) {
	h.cannedProductivity(w, r, 30*24*time.Hour, "week")
}

// Collaboration handles GET /reports/collaboration.
func (h *ReportHandler) Collaboration(w http.ResponseWriter, r *http.Request) {
	userID, rng, ok := h.reportScope(w, r)
	if !ok {
		return
	}

	rep, err := h.reportService.Collaboration(r.Context(), userID, rng)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Collaboration report retrieved", rep)
}

// Custom handles POST /reports/custom, dispatching on the requested
// report type.
func (h *ReportHandler) Custom(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CustomReportRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, "Validation failed", shared.ValidationDetails(err))
		return
	}

	rng := domain.TimeRange{From: req.StartDate, To: req.EndDate}
	if rng.From != nil && rng.To != nil && rng.From.After(*rng.To) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "startDate must not be after endDate")
		return
	}

	var (
		rep any
		err error
	)
	switch req.ReportType {
	case "status":
		rep, err = h.reportService.TasksByStatus(r.Context(), userID, rng)
	case "category":
		rep, err = h.reportService.TasksByCategory(r.Context(), userID, rng)
	case "performance":
		rep, err = h.reportService.Performance(r.Context(), userID, rng)
	case "productivity":
		groupBy := req.GroupBy
		if groupBy == "" {
			groupBy = "day"
		}
		rep, err = h.reportService.Productivity(r.Context(), userID, groupBy, rng)
	case "collaboration":
		rep, err = h.reportService.Collaboration(r.Context(), userID, rng)
	default:
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown report type")
		return
	}
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Report generated", rep)
}

func (h *ReportHandler) cannedProductivity(
	w http.ResponseWriter,
	r *http.Request,
	window time.Duration,
	groupBy string,
) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	end := h.now()
	start := end.Add(-window)
	rng := domain.TimeRange{From: &start, To: &end}

	rep, err := h.reportService.Productivity(r.Context(), userID, groupBy, rng)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, "Productivity report retrieved", rep)
}

// reportScope extracts the authenticated user and the optional time range
// shared by the report endpoints.
func (h *ReportHandler) reportScope(
	w http.ResponseWriter,
	r *http.Request,
) (uuid.UUID, domain.TimeRange, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return uuid.Nil, domain.TimeRange{}, false
	}

	rng, err := parseTimeRange(r)
	if err != nil {
		HandleServiceError(w, r, err)
		return uuid.Nil, domain.TimeRange{}, false
	}
	return userID, rng, true
}
