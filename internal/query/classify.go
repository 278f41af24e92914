// Package query implements the pure task classification and selection
// logic: deadline state, filter predicates, search matching and ordering.
package query

import "time"

// UpcomingHorizon is how far ahead a deadline counts as "due soon".
const UpcomingHorizon = 24 * time.Hour

// DeadlineState is the temporal classification of a task.
type DeadlineState int

const (
	// NoDeadline means the task has no deadline set.
	NoDeadline DeadlineState = iota

	// Overdue means the deadline has passed and the task is incomplete.
	Overdue

	// UpcomingSoon means the deadline is within the next 24 hours and
	// the task is incomplete.
	UpcomingSoon

	// Scheduled means the deadline is further out, or the task is
	// completed.
	Scheduled
)

// String returns the display name of the state.
func (s DeadlineState) String() string {
	switch s {
	case NoDeadline:
		return "no-deadline"
	case Overdue:
		return "overdue"
	case UpcomingSoon:
		return "upcoming"
	default:
		return "scheduled"
	}
}

// Classify computes the temporal state of a task from its deadline and
// completion flag. A completed task is never Overdue or UpcomingSoon.
// Callers must re-evaluate at render time rather than cache the result,
// since now advances.
func Classify(deadline *time.Time, completed bool, now time.Time) DeadlineState {
	if deadline == nil {
		return NoDeadline
	}
	if completed {
		return Scheduled
	}
	if deadline.Before(now) {
		return Overdue
	}
	if !deadline.After(now.Add(UpcomingHorizon)) {
		return UpcomingSoon
	}
	return Scheduled
}
