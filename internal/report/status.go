package report

import (
	"github.com/g-celente/case-watch-back/internal/domain"
)

// StatusReport tallies a task collection by status.
type StatusReport struct {
	TasksByStatus  map[domain.TaskStatus]int `json:"tasksByStatus"`
	TotalTasks     int                       `json:"totalTasks"`
	CompletedTasks int                       `json:"completedTasks"`
	CompletionRate float64                   `json:"completionRate"`
	Period         Period                    `json:"period"`
}

// BuildStatusReport tallies tasks by status and derives the completion
// rate. The caller is expected to have applied the window to the query;
// the range is echoed back in the period.
func BuildStatusReport(tasks []domain.TaskWithRelations, rng domain.TimeRange) StatusReport {
	byStatus := make(map[domain.TaskStatus]int)
	for i := range tasks {
		byStatus[tasks[i].Status]++
	}

	total := len(tasks)
	completed := byStatus[domain.TaskStatusCompleted]

	return StatusReport{
		TasksByStatus:  byStatus,
		TotalTasks:     total,
		CompletedTasks: completed,
		CompletionRate: completionRate(completed, total),
		Period:         PeriodOf(rng),
	}
}
