package report

import (
	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
)

// UncategorizedBucket is the synthetic bucket name for tasks without a
// category. Its ID serializes as null.
const UncategorizedBucket = "No category"

// CategoryBucket aggregates the tasks of one category.
type CategoryBucket struct {
	ID    *uuid.UUID `json:"id"`
	Name  string     `json:"name"`
	Total int        `json:"total"`
	StatusTally
}

// CategoryReport groups a task collection by category name. Tasks without
// a category fall into the synthetic UncategorizedBucket.
type CategoryReport struct {
	TasksByCategory []CategoryBucket `json:"tasksByCategory"`
	TotalTasks      int              `json:"totalTasks"`
	CategoriesCount int              `json:"categoriesCount"`
	Period          Period           `json:"period"`
}

// BuildCategoryReport buckets tasks by category name, counting per-status
// totals per bucket. Buckets keep first-seen order.
func BuildCategoryReport(tasks []domain.TaskWithRelations, rng domain.TimeRange) CategoryReport {
	index := make(map[string]int)
	buckets := make([]CategoryBucket, 0)

	for i := range tasks {
		task := &tasks[i]

		name := UncategorizedBucket
		var id *uuid.UUID
		if task.Category != nil {
			name = task.Category.Name
			categoryID := task.Category.ID
			id = &categoryID
		}

		at, ok := index[name]
		if !ok {
			at = len(buckets)
			index[name] = at
			buckets = append(buckets, CategoryBucket{ID: id, Name: name})
		}

		buckets[at].Total++
		buckets[at].Add(task.Status)
	}

	return CategoryReport{
		TasksByCategory: buckets,
		TotalTasks:      len(tasks),
		CategoriesCount: len(buckets),
		Period:          PeriodOf(rng),
	}
}
