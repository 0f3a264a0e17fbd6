package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/report"
	"github.com/g-celente/case-watch-back/internal/store"
)

// dashboardRecentCount caps the recent-item lists on the dashboard.
const dashboardRecentCount = 5

// ReportService derives reports over the authenticated user's tasks.
// Each report fetches the full matching task set (unpaginated) and hands
// it to the pure builders in the report package.
type ReportService interface {
	// TasksByStatus tallies the user's tasks by status.
	TasksByStatus(ctx context.Context, userID uuid.UUID, rng domain.TimeRange) (report.StatusReport, error)

	// TasksByCategory buckets the user's tasks by category.
	TasksByCategory(ctx context.Context, userID uuid.UUID, rng domain.TimeRange) (report.CategoryReport, error)

	// Productivity buckets the user's tasks by creation period.
	// groupBy must be one of day, week, month.
	Productivity(
		ctx context.Context,
		userID uuid.UUID,
		groupBy string,
		rng domain.TimeRange,
	) (report.ProductivityReport, error)

	// Collaboration summarizes assignment and collaboration coverage over
	// the user's tasks.
	Collaboration(
		ctx context.Context,
		userID uuid.UUID,
		rng domain.TimeRange,
	) (report.CollaborationReport, error)

	// Performance reports a user's task throughput. The subject user must
	// exist; callers default the subject to the authenticated user.
	Performance(
		ctx context.Context,
		subjectID uuid.UUID,
		rng domain.TimeRange,
	) (report.PerformanceReport, error)

	// Dashboard composes breakdowns, the overdue count, and the most
	// recent tasks and categories. The component reads run concurrently
	// and the dashboard fails as a whole on the first error.
	Dashboard(ctx context.Context, userID uuid.UUID) (report.Dashboard, error)
}

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	taskStore     store.TaskStore
	categoryStore store.CategoryStore
	userStore     store.UserStore
	logger        *slog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(
	taskStore store.TaskStore,
	categoryStore store.CategoryStore,
	userStore store.UserStore,
	logger *slog.Logger,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		taskStore:     taskStore,
		categoryStore: categoryStore,
		userStore:     userStore,
		logger:        logger.With("component", "report_service"),
	}
}

// TasksByStatus tallies the user's tasks by status.
func (s *ReportServiceImpl) TasksByStatus(
	ctx context.Context,
	userID uuid.UUID,
	rng domain.TimeRange,
) (report.StatusReport, error) {
	tasks, err := s.fetchTasks(ctx, userID, rng)
	if err != nil {
		return report.StatusReport{}, err
	}
	return report.BuildStatusReport(tasks, rng), nil
}

// TasksByCategory buckets the user's tasks by category.
func (s *ReportServiceImpl) TasksByCategory(
	ctx context.Context,
	userID uuid.UUID,
	rng domain.TimeRange,
) (report.CategoryReport, error) {
	tasks, err := s.fetchTasks(ctx, userID, rng)
	if err != nil {
		return report.CategoryReport{}, err
	}
	return report.BuildCategoryReport(tasks, rng), nil
}

// Productivity buckets the user's tasks by creation period.
func (s *ReportServiceImpl) Productivity(
	ctx context.Context,
	userID uuid.UUID,
	groupBy string,
	rng domain.TimeRange,
) (report.ProductivityReport, error) {
	grouping, err := report.ParseGrouping(groupBy)
	if err != nil {
		return report.ProductivityReport{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	tasks, err := s.fetchTasks(ctx, userID, rng)
	if err != nil {
		return report.ProductivityReport{}, err
	}
	return report.BuildProductivityReport(tasks, grouping, rng), nil
}

// Collaboration summarizes assignment and collaboration coverage.
func (s *ReportServiceImpl) Collaboration(
	ctx context.Context,
	userID uuid.UUID,
	rng domain.TimeRange,
) (report.CollaborationReport, error) {
	tasks, err := s.fetchTasks(ctx, userID, rng)
	if err != nil {
		return report.CollaborationReport{}, err
	}
	return report.BuildCollaborationReport(tasks, rng), nil
}

// Performance reports a user's task throughput.
func (s *ReportServiceImpl) Performance(
	ctx context.Context,
	subjectID uuid.UUID,
	rng domain.TimeRange,
) (report.PerformanceReport, error) {
	user, err := s.userStore.GetByID(ctx, subjectID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve report subject",
				"error", err,
				"user_id", subjectID)
		}
		return report.PerformanceReport{}, fromStore(fmt.Errorf("failed to retrieve user: %w", err))
	}

	tasks, err := s.fetchTasks(ctx, subjectID, rng)
	if err != nil {
		return report.PerformanceReport{}, err
	}

	byStatus, err := s.taskStore.CountByStatus(ctx, subjectID, rng)
	if err != nil {
		return report.PerformanceReport{}, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	byPriority, err := s.taskStore.CountByPriority(ctx, subjectID, rng)
	if err != nil {
		return report.PerformanceReport{}, fmt.Errorf("failed to count tasks by priority: %w", err)
	}
	overdue, err := s.taskStore.CountOverdue(ctx, subjectID)
	if err != nil {
		return report.PerformanceReport{}, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	return report.BuildPerformanceReport(user.Summary(), tasks, byStatus, byPriority, overdue, rng), nil
}

// Dashboard composes the dashboard from five independent store reads.
func (s *ReportServiceImpl) Dashboard(
	ctx context.Context,
	userID uuid.UUID,
) (report.Dashboard, error) {
	var (
		byStatus    map[domain.TaskStatus]int
		byPriority  map[domain.TaskPriority]int
		overdue     int
		recentTasks []domain.TaskWithRelations
		recentCats  []domain.Category
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		byStatus, err = s.taskStore.CountByStatus(gctx, userID, domain.TimeRange{})
		if err != nil {
			return fmt.Errorf("failed to count tasks by status: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		byPriority, err = s.taskStore.CountByPriority(gctx, userID, domain.TimeRange{})
		if err != nil {
			return fmt.Errorf("failed to count tasks by priority: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		overdue, err = s.taskStore.CountOverdue(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to count overdue tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		tasks, _, err := s.taskStore.List(gctx, store.TaskFilter{
			OwnerID: userID,
			SortBy:  "created_at",
			Limit:   dashboardRecentCount,
		})
		if err != nil {
			return fmt.Errorf("failed to list recent tasks: %w", err)
		}
		recentTasks = derefTasks(tasks)
		return nil
	})
	g.Go(func() error {
		cats, err := s.categoryStore.ListRecent(gctx, userID, dashboardRecentCount)
		if err != nil {
			return fmt.Errorf("failed to list recent categories: %w", err)
		}
		recentCats = make([]domain.Category, len(cats))
		for i, c := range cats {
			recentCats[i] = *c
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build dashboard",
			"error", err,
			"user_id", userID)
		return report.Dashboard{}, err
	}

	return report.BuildDashboard(byStatus, byPriority, overdue, recentTasks, recentCats), nil
}

// fetchTasks loads the user's full task set within the creation-time
// range, unpaginated so reports see every matching task.
func (s *ReportServiceImpl) fetchTasks(
	ctx context.Context,
	userID uuid.UUID,
	rng domain.TimeRange,
) ([]domain.TaskWithRelations, error) {
	tasks, _, err := s.taskStore.List(ctx, store.TaskFilter{
		OwnerID:   userID,
		CreatedAt: rng,
	})
	if err != nil {
		s.logger.Error("failed to load tasks for report",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to load tasks for report: %w", err)
	}
	return derefTasks(tasks), nil
}

func derefTasks(tasks []*domain.TaskWithRelations) []domain.TaskWithRelations {
	out := make([]domain.TaskWithRelations, len(tasks))
	for i, t := range tasks {
		out[i] = *t
	}
	return out
}
