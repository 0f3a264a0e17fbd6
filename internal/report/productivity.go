package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/g-celente/case-watch-back/internal/domain"
)

// Grouping selects the bucket size of a productivity report.
type Grouping string

const (
	GroupByDay   Grouping = "day"
	GroupByWeek  Grouping = "week"
	GroupByMonth Grouping = "month"
)

// ParseGrouping validates a raw groupBy value, defaulting to day for the
// empty string.
func ParseGrouping(s string) (Grouping, error) {
	switch Grouping(s) {
	case GroupByDay, GroupByWeek, GroupByMonth:
		return Grouping(s), nil
	case "":
		return GroupByDay, nil
	}
	return "", fmt.Errorf("%w: groupBy must be day, week, or month", domain.ErrValidation)
}

// PeriodKey returns the bucket key for a creation time: the ISO date for
// day, the ISO date of the week's Sunday for week, and YYYY-MM for month.
// All keys sort lexicographically in chronological order.
func (g Grouping) PeriodKey(t time.Time) string {
	t = t.UTC()
	switch g {
	case GroupByWeek:
		sunday := t.AddDate(0, 0, -int(t.Weekday()))
		return sunday.Format("2006-01-02")
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// ProductivityBucket aggregates the tasks created in one period.
// Created counts every task in the bucket; the embedded tally splits the
// same tasks by their current status.
type ProductivityBucket struct {
	Period  string `json:"period"`
	Created int    `json:"created"`
	StatusTally
}

// ProductivityReport is a time series of task creation bucketed by day,
// week, or month.
type ProductivityReport struct {
	ProductivityData []ProductivityBucket `json:"productivityData"`
	GroupBy          Grouping             `json:"groupBy"`
	Period           Period               `json:"period"`
}

// BuildProductivityReport buckets tasks by creation date under the given
// grouping. Buckets are sorted ascending by period key; every task lands
// in exactly one bucket.
func BuildProductivityReport(
	tasks []domain.TaskWithRelations,
	groupBy Grouping,
	rng domain.TimeRange,
) ProductivityReport {
	index := make(map[string]int)
	buckets := make([]ProductivityBucket, 0)

	for i := range tasks {
		task := &tasks[i]
		key := groupBy.PeriodKey(task.CreatedAt)

		at, ok := index[key]
		if !ok {
			at = len(buckets)
			index[key] = at
			buckets = append(buckets, ProductivityBucket{Period: key})
		}

		buckets[at].Created++
		buckets[at].Add(task.Status)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Period < buckets[j].Period
	})

	return ProductivityReport{
		ProductivityData: buckets,
		GroupBy:          groupBy,
		Period:           PeriodOf(rng),
	}
}
