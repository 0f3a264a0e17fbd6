// Package report implements the aggregation engine behind the reporting
// endpoints. Every builder is a pure function over an already-fetched task
// collection (plus pre-aggregated counts where the store provides them);
// nothing in this package touches the database.
package report

import (
	"math"
	"time"

	"github.com/g-celente/case-watch-back/internal/domain"
)

// Period echoes the requested report window in payloads; either bound is
// null when the caller did not constrain it.
type Period struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// PeriodOf converts a time range into its payload representation.
func PeriodOf(r domain.TimeRange) Period {
	return Period{StartDate: r.From, EndDate: r.To}
}

// StatusTally carries per-status counters using the fixed report field
// names. Unknown statuses are ignored rather than becoming ad-hoc fields.
type StatusTally struct {
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
	Cancelled  int `json:"cancelled"`
}

// Add increments the counter for the given status. Unrecognized statuses
// are dropped.
func (s *StatusTally) Add(status domain.TaskStatus) {
	switch status {
	case domain.TaskStatusCompleted:
		s.Completed++
	case domain.TaskStatusInProgress:
		s.InProgress++
	case domain.TaskStatusPending:
		s.Pending++
	case domain.TaskStatusCancelled:
		s.Cancelled++
	}
}

// round2 rounds to two decimal places, the precision used for every rate
// and average in report payloads.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// completionRate returns completed/total*100 rounded to two decimals,
// defined as 0 for an empty collection.
func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(completed) / float64(total) * 100)
}
