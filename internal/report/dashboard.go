package report

import (
	"github.com/g-celente/case-watch-back/internal/domain"
)

// DashboardSummary carries the headline numbers of the dashboard.
type DashboardSummary struct {
	TotalTasks      int     `json:"totalTasks"`
	CompletedTasks  int     `json:"completedTasks"`
	CompletionRate  float64 `json:"completionRate"`
	OverdueTasks    int     `json:"overdueTasks"`
	TotalCategories int     `json:"totalCategories"`
}

// Dashboard is the fixed composition served by the dashboard endpoint:
// breakdowns, overdue count, and the most recent tasks and categories.
type Dashboard struct {
	Summary          DashboardSummary           `json:"summary"`
	Breakdown        PerformanceBreakdown       `json:"breakdown"`
	RecentTasks      []domain.TaskWithRelations `json:"recentTasks"`
	RecentCategories []domain.Category          `json:"recentCategories"`
}

// BuildDashboard merges the independently fetched dashboard components.
// TotalTasks is the sum over the status counts rather than a separate
// count query.
func BuildDashboard(
	byStatus map[domain.TaskStatus]int,
	byPriority map[domain.TaskPriority]int,
	overdue int,
	recentTasks []domain.TaskWithRelations,
	recentCategories []domain.Category,
) Dashboard {
	var total int
	for _, n := range byStatus {
		total += n
	}
	completed := byStatus[domain.TaskStatusCompleted]

	return Dashboard{
		Summary: DashboardSummary{
			TotalTasks:      total,
			CompletedTasks:  completed,
			CompletionRate:  completionRate(completed, total),
			OverdueTasks:    overdue,
			TotalCategories: len(recentCategories),
		},
		Breakdown: PerformanceBreakdown{
			TasksByStatus:   byStatus,
			TasksByPriority: byPriority,
		},
		RecentTasks:      recentTasks,
		RecentCategories: recentCategories,
	}
}
