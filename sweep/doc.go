// Package sweep implements the periodic overdue sweep: a read-only job that
// re-evaluates all open loans against the fee schedule and reports which are
// currently overdue and what fee has accrued so far. It never writes to the
// ledger; fees are only booked when the copy actually comes back.
//
// The sweep runs on a fixed interval and exposes the same computation as a
// manual "recompute now" entry point.
package sweep
