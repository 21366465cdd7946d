package shell

import (
	"time"

	"github.com/shelfwise/circulate/circulation/core"
)

// Outcome classifies how a command ended.
type Outcome string

const (
	// OutcomeCommitted - the command's records were appended to the transaction log.
	OutcomeCommitted Outcome = "committed"

	// OutcomeNotFound - the copy or member the command names does not exist.
	OutcomeNotFound Outcome = "not_found"

	// OutcomeUnavailable - the copy is not in a state that allows the operation.
	OutcomeUnavailable Outcome = "unavailable"

	// OutcomeInvalidState - the operation contradicts the ledger (e.g. returning
	// a copy with no open borrowing transaction).
	OutcomeInvalidState Outcome = "invalid_state"

	// OutcomePolicyViolation - a per-library policy rule rejected the command.
	OutcomePolicyViolation Outcome = "policy_violation"

	// OutcomeConflict - a concurrent command won the append race and the bounded
	// internal retry was exhausted.
	OutcomeConflict Outcome = "conflict"
)

// CommandResult is what every command handler returns to its caller. Exactly
// one outcome applies; TransactionID, DueDate and FeeCents are set only on
// committed results, and only where the command produces them.
type CommandResult struct {
	Outcome       Outcome
	TransactionID core.TransactionIDString
	DueDate       time.Time
	FeeCents      core.FeeCentsInt64
	Reason        string

	// Idempotent marks a committed result that appended nothing because the
	// requested state already held. A business outcome, not an error.
	Idempotent bool

	// Retry carries the retry-loop metadata for observability.
	Retry RetryMetrics
}

// IsCommitted reports whether the command mutated (or idempotently matched) the ledger.
func (r CommandResult) IsCommitted() bool {
	return r.Outcome == OutcomeCommitted
}

// CommittedResult builds the result of a successfully appended command.
func CommittedResult(retry RetryMetrics) CommandResult {
	return CommandResult{Outcome: OutcomeCommitted, Retry: retry}
}

// IdempotentResult builds a committed result that appended nothing.
func IdempotentResult(retry RetryMetrics) CommandResult {
	return CommandResult{Outcome: OutcomeCommitted, Idempotent: true, Retry: retry}
}

// ConflictResult builds the result reported after the internal retry is exhausted.
func ConflictResult(retry RetryMetrics) CommandResult {
	return CommandResult{Outcome: OutcomeConflict, Reason: "concurrent command won the append race", Retry: retry}
}

// RejectedResult maps a core rejection onto the caller-facing outcome taxonomy.
func RejectedResult(rejection core.Rejection, retry RetryMetrics) CommandResult {
	outcome := OutcomeInvalidState

	switch rejection.Kind {
	case core.RejectionNotFound:
		outcome = OutcomeNotFound
	case core.RejectionUnavailable:
		outcome = OutcomeUnavailable
	case core.RejectionInvalidState:
		outcome = OutcomeInvalidState
	case core.RejectionPolicyViolation:
		outcome = OutcomePolicyViolation
	}

	return CommandResult{Outcome: outcome, Reason: rejection.Reason, Retry: retry}
}
