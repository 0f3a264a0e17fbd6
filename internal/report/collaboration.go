package report

import (
	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
)

// TaskCollaborationEntry records the people involved in one task that has
// at least one collaborator or assignee.
type TaskCollaborationEntry struct {
	TaskID        uuid.UUID             `json:"taskId"`
	Title         string                `json:"title"`
	Collaborators []domain.Collaborator `json:"collaborators"`
	Assignees     []domain.UserSummary  `json:"assignees"`
}

// CollaborationSummary carries the aggregate collaboration counters.
//
// CollaborationRate counts a task with both collaborators and assignees
// twice in its numerator. That matches the behavior this service has
// always exposed; consumers treat the rate as an activity index, not a
// task percentage.
type CollaborationSummary struct {
	TotalTasks             int     `json:"totalTasks"`
	TasksWithCollaborators int     `json:"tasksWithCollaborators"`
	TasksWithAssignees     int     `json:"tasksWithAssignees"`
	UniqueCollaborators    int     `json:"uniqueCollaborators"`
	UniqueAssignees        int     `json:"uniqueAssignees"`
	CollaborationRate      float64 `json:"collaborationRate"`
}

// CollaborationReport describes how tasks are shared across users.
type CollaborationReport struct {
	Summary              CollaborationSummary     `json:"summary"`
	CollaborationsByTask []TaskCollaborationEntry `json:"collaborationsByTask"`
	Period               Period                   `json:"period"`
}

// BuildCollaborationReport scans a task collection for assignment and
// collaboration activity. A task appears once in CollaborationsByTask
// when either group is non-empty, but contributes to both counters when
// it has both.
func BuildCollaborationReport(tasks []domain.TaskWithRelations, rng domain.TimeRange) CollaborationReport {
	collaborators := make(map[uuid.UUID]struct{})
	assignees := make(map[uuid.UUID]struct{})

	summary := CollaborationSummary{TotalTasks: len(tasks)}
	entries := make([]TaskCollaborationEntry, 0)

	for i := range tasks {
		task := &tasks[i]

		if len(task.Collaborators) > 0 {
			summary.TasksWithCollaborators++
			for _, c := range task.Collaborators {
				collaborators[c.ID] = struct{}{}
			}
		}

		if len(task.Assignees) > 0 {
			summary.TasksWithAssignees++
			for _, a := range task.Assignees {
				assignees[a.ID] = struct{}{}
			}
		}

		if len(task.Collaborators) > 0 || len(task.Assignees) > 0 {
			entries = append(entries, TaskCollaborationEntry{
				TaskID:        task.ID,
				Title:         task.Title,
				Collaborators: task.Collaborators,
				Assignees:     task.Assignees,
			})
		}
	}

	summary.UniqueCollaborators = len(collaborators)
	summary.UniqueAssignees = len(assignees)
	if summary.TotalTasks > 0 {
		active := summary.TasksWithCollaborators + summary.TasksWithAssignees
		summary.CollaborationRate = round2(float64(active) / float64(summary.TotalTasks) * 100)
	}

	return CollaborationReport{
		Summary:              summary,
		CollaborationsByTask: entries,
		Period:               PeriodOf(rng),
	}
}
