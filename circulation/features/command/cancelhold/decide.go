package cancelhold

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
)

const reasonCopyNotFound = "copy is not in this library's inventory"

// Decide determines what cancelling a hold commits. Cancelling an absent hold
// is idempotent: no event, no error, same observable result every time.
//
// Business rules:
//
//	GIVEN: a copy the member has a queued hold or an active reservation on
//	WHEN: CancelHold is received
//	THEN: HoldReleased with reason "cancelled"
//	 AND: when a reservation was cancelled, HoldFulfilled for the next queued
//	      member so the copy does not sit idle
//	REJECT NotFound: copy unknown
//	IDEMPOTENCY: no hold present appends nothing
func Decide(history core.DomainEvents, command Command, p policy.Policy) core.DecisionResult {
	copySnapshot := core.ProjectCopy(history, command.CopyID.String())

	if !copySnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonCopyNotFound)
	}

	memberID := command.MemberID.String()

	if !copySnapshot.IsQueued(memberID) && !copySnapshot.IsReservedFor(memberID) {
		return core.IdempotentDecision()
	}

	released := core.BuildHoldReleased(
		command.CopyID,
		command.LibraryID,
		memberID,
		core.HoldReleaseReasonCancelled,
		command.OccurredAt,
	)

	if !copySnapshot.IsReservedFor(memberID) {
		return core.SuccessDecision(released)
	}

	// A cancelled reservation passes the copy on to the next queued member.
	if next, ok := copySnapshot.NextInLine(); ok {
		return core.SuccessDecision(released, core.BuildHoldFulfilled(
			command.CopyID,
			command.LibraryID,
			next.MemberID,
			command.OccurredAt.Add(p.HoldPickupWindow()),
			command.OccurredAt,
		))
	}

	return core.SuccessDecision(released)
}

// BuildEventFilter selects the full event history of the copy.
func BuildEventFilter(copyID uuid.UUID) ledgerstore.Filter {
	return ledgerstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyAddedToInventoryEventType,
			core.CopyRetiredEventType,
			core.CopyCheckedOutEventType,
			core.CopyReturnedEventType,
			core.LoanRenewedEventType,
			core.HoldPlacedEventType,
			core.HoldFulfilledEventType,
			core.HoldReleasedEventType,
		).
		AndAnyPredicateOf(
			ledgerstore.P("CopyID", copyID.String()),
		).
		Finalize()
}
