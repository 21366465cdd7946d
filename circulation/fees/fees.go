// Package fees computes overdue fees and overdue status. Everything here is a
// pure function of a due date, an observation time, and a policy, so the same
// arithmetic serves both the return path and the overdue sweep.
package fees

import (
	"time"

	"github.com/shelfwise/circulate/policy"
)

// LateDays counts how many calendar days past due a loan is at the observation
// time, before the grace period is applied. Both timestamps are truncated to
// their UTC calendar date, so a loan due yesterday and observed today counts
// one late day regardless of the clock times involved. Never negative.
func LateDays(dueDate, observedAt time.Time) int {
	due := truncateToDate(dueDate)
	observed := truncateToDate(observedAt)

	days := int(observed.Sub(due) / (24 * time.Hour))
	if days < 0 {
		return 0
	}

	return days
}

// IsOverdue reports whether a loan with the given due date is overdue at the
// observation time. Overdue starts the calendar day after the due date.
func IsOverdue(dueDate, observedAt time.Time) bool {
	return LateDays(dueDate, observedAt) > 0
}

// Compute returns the fee in cents owed for a loan with the given due date
// when observed (returned, renewed, or swept) at observedAt. Grace days are
// deducted from the late-day count first; the result is floored at zero and
// capped at the policy maximum when one is set.
func Compute(dueDate, observedAt time.Time, p policy.Policy) int64 {
	billableDays := LateDays(dueDate, observedAt) - p.GraceDays
	if billableDays <= 0 {
		return 0
	}

	fee := int64(billableDays) * p.FinePerDayCents
	if p.MaxFeeCents > 0 && fee > p.MaxFeeCents {
		fee = p.MaxFeeCents
	}

	return fee
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
