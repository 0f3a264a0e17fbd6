package domain

import "time"

// TimeRange is an optional [From, To] window over creation timestamps.
// Both bounds travel in a single value and are always applied together;
// filters are never assembled by merging same-keyed fragments.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether neither bound is set.
func (r TimeRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether t falls inside the window. A nil bound is
// open on that side; both bounds are inclusive.
func (r TimeRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}
