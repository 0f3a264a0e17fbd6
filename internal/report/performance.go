package report

import (
	"time"

	"github.com/g-celente/case-watch-back/internal/domain"
)

// PerformanceSummary carries the headline numbers of a user's
// performance report.
type PerformanceSummary struct {
	TotalTasks            int     `json:"totalTasks"`
	CompletedTasks        int     `json:"completedTasks"`
	CompletionRate        float64 `json:"completionRate"`
	OverdueTasks          int     `json:"overdueTasks"`
	AverageCompletionDays float64 `json:"averageCompletionDays"`
}

// PerformanceBreakdown exposes the raw status and priority counts as
// reported by the store's group-by primitives.
type PerformanceBreakdown struct {
	TasksByStatus   map[domain.TaskStatus]int   `json:"tasksByStatus"`
	TasksByPriority map[domain.TaskPriority]int `json:"tasksByPriority"`
}

// PerformanceReport describes a single user's task throughput.
type PerformanceReport struct {
	User      domain.UserSummary   `json:"user"`
	Summary   PerformanceSummary   `json:"summary"`
	Breakdown PerformanceBreakdown `json:"breakdown"`
	Period    Period               `json:"period"`
}

// BuildPerformanceReport derives a user's performance from their task
// collection plus the store-provided aggregates. Average completion time
// is the mean of (updatedAt - createdAt) over completed tasks, expressed
// in days and rounded to two decimals; it is 0 when no task qualifies.
func BuildPerformanceReport(
	user domain.UserSummary,
	tasks []domain.TaskWithRelations,
	byStatus map[domain.TaskStatus]int,
	byPriority map[domain.TaskPriority]int,
	overdue int,
	rng domain.TimeRange,
) PerformanceReport {
	total := len(tasks)
	completed := byStatus[domain.TaskStatusCompleted]

	var completionSum time.Duration
	var completionCount int
	for i := range tasks {
		task := &tasks[i]
		if task.Status != domain.TaskStatusCompleted {
			continue
		}
		if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
			continue
		}
		completionSum += task.UpdatedAt.Sub(task.CreatedAt)
		completionCount++
	}

	var averageDays float64
	if completionCount > 0 {
		mean := completionSum / time.Duration(completionCount)
		averageDays = round2(mean.Hours() / 24)
	}

	return PerformanceReport{
		User: user,
		Summary: PerformanceSummary{
			TotalTasks:            total,
			CompletedTasks:        completed,
			CompletionRate:        completionRate(completed, total),
			OverdueTasks:          overdue,
			AverageCompletionDays: averageDays,
		},
		Breakdown: PerformanceBreakdown{
			TasksByStatus:   byStatus,
			TasksByPriority: byPriority,
		},
		Period: PeriodOf(rng),
	}
}
