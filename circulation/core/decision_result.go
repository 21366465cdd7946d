package core

// RejectionKind classifies why a command was refused, so callers can present an
// actionable message and decide whether a retry with corrected input makes sense.
type RejectionKind string

const (
	// RejectionNotFound - the copy, member, or library the command names does not exist
	// in this library's records.
	RejectionNotFound RejectionKind = "not_found"

	// RejectionUnavailable - the copy is not in a state that allows the command
	// (already checked out, reserved for someone else, retired).
	RejectionUnavailable RejectionKind = "unavailable"

	// RejectionInvalidState - the command contradicts the ledger (returning a copy
	// with no open transaction, renewing a loan the member does not hold).
	RejectionInvalidState RejectionKind = "invalid_state"

	// RejectionPolicyViolation - a library policy forbids the command (renewal limit,
	// hold cap, member standing, unpaid fees over the threshold). Retrying without
	// changing the request cannot succeed.
	RejectionPolicyViolation RejectionKind = "policy_violation"
)

// Rejection carries the kind and the human-readable reason of a refused command.
type Rejection struct {
	Kind   RejectionKind
	Reason string
}

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// It should only be constructed with the provided factory methods:
// SuccessDecision(events...), IdempotentDecision(), or RejectedDecision(kind, reason).
// Rejected decisions append nothing to the log; the transaction log records only
// committed mutations.
type DecisionResult struct {
	Outcome   string
	Events    DomainEvents // nil unless Outcome is "success"
	Rejection *Rejection   // nil unless Outcome is "rejected"
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	rejectedOutcome   = "rejected"
)

// IdempotentDecision creates a DecisionResult indicating no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision creates a DecisionResult with one or more events to append
// atomically.
func SuccessDecision(event DomainEvent, additionalEvents ...DomainEvent) DecisionResult {
	events := DomainEvents{event}
	events = append(events, additionalEvents...)

	return DecisionResult{Outcome: successOutcome, Events: events}
}

// RejectedDecision creates a DecisionResult refusing the command for the given reason.
func RejectedDecision(kind RejectionKind, reason string) DecisionResult {
	return DecisionResult{
		Outcome:   rejectedOutcome,
		Rejection: &Rejection{Kind: kind, Reason: reason},
	}
}

// HasEventsToAppend returns true if the decision produced events for the log.
func (r DecisionResult) HasEventsToAppend() bool {
	return r.Outcome == successOutcome
}

// IsIdempotent returns true if the command was a no-op against current state.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// IsRejected returns true if the command was refused.
func (r DecisionResult) IsRejected() bool {
	return r.Outcome == rejectedOutcome
}
