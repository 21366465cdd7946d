package expirehold

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
)

const (
	reasonCopyNotFound    = "copy is not in this library's inventory"
	reasonWindowStillOpen = "the pickup window has not elapsed yet"
)

// Decide determines what expiring a reservation commits. Expiring a copy
// without a reservation is idempotent, which lets the scheduler re-issue the
// command without harm.
//
// Business rules:
//
//	GIVEN: a copy reserved for pickup whose deadline lies in the past
//	WHEN: ExpireHold is received
//	THEN: HoldReleased with reason "expired"
//	 AND: HoldFulfilled for the next queued member when one is waiting
//	REJECT NotFound: copy unknown
//	REJECT InvalidState: the pickup window is still open
//	IDEMPOTENCY: no reservation present appends nothing
func Decide(history core.DomainEvents, command Command, p policy.Policy) core.DecisionResult {
	copySnapshot := core.ProjectCopy(history, command.CopyID.String())

	if !copySnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonCopyNotFound)
	}

	if copySnapshot.State != core.StateReservedForHold || copySnapshot.Reservation == nil {
		return core.IdempotentDecision()
	}

	if command.OccurredAt.Before(copySnapshot.Reservation.PickupDeadline) {
		return core.RejectedDecision(core.RejectionInvalidState, reasonWindowStillOpen)
	}

	released := core.BuildHoldReleased(
		command.CopyID,
		command.LibraryID,
		copySnapshot.Reservation.MemberID,
		core.HoldReleaseReasonExpired,
		command.OccurredAt,
	)

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
