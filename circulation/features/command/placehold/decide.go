package placehold

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
)

const (
	reasonCopyNotFound   = "copy is not in this library's inventory"
	reasonMemberNotFound = "member is not registered with this library"
	reasonCopyRetired    = "copy is retired from circulation"
	reasonCopyAvailable  = "copy is available; check it out instead of placing a hold"
	reasonCopyReserved   = "copy is reserved and awaiting pickup"
	reasonAlreadyHolder  = "member already has this copy checked out"
	reasonDuplicateHold  = "member already has a hold on this copy"
	reasonHoldLimitHit   = "member has reached the concurrent hold limit"
)

// Decide determines whether the member joins the copy's hold queue.
//
// Business rules:
//
//	GIVEN: a copy checked out to someone else
//	WHEN: PlaceHold is received
//	THEN: HoldPlaced appending the member to the FIFO queue
//	REJECT NotFound: copy or member unknown
//	REJECT Unavailable: copy retired
//	REJECT InvalidState: copy available or reserved, or member is the holder
//	REJECT PolicyViolation: duplicate hold, or member at the hold cap
func Decide(history core.DomainEvents, command Command, p policy.Policy) core.DecisionResult {
	copySnapshot := core.ProjectCopy(history, command.CopyID.String())
	memberSnapshot := core.ProjectMember(history, command.MemberID.String())

	if !copySnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonCopyNotFound)
	}

	if !memberSnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonMemberNotFound)
	}

	if copySnapshot.IsQueued(command.MemberID.String()) || copySnapshot.IsReservedFor(command.MemberID.String()) {
		return core.RejectedDecision(core.RejectionPolicyViolation, reasonDuplicateHold)
	}

	switch copySnapshot.State {
	case core.StateRetired:
		return core.RejectedDecision(core.RejectionUnavailable, reasonCopyRetired)

	case core.StateAvailable:
		return core.RejectedDecision(core.RejectionInvalidState, reasonCopyAvailable)

	case core.StateReservedForHold:
		return core.RejectedDecision(core.RejectionInvalidState, reasonCopyReserved)
	}

	if copySnapshot.IsHeldBy(command.MemberID.String()) {
		return core.RejectedDecision(core.RejectionInvalidState, reasonAlreadyHolder)
	}

	if memberSnapshot.OpenHoldCount() >= p.MaxHoldsPerMember {
		return core.RejectedDecision(core.RejectionPolicyViolation, reasonHoldLimitHit)
	}

	return core.SuccessDecision(
		core.BuildHoldPlaced(
			command.CopyID,
			command.LibraryID,
			command.MemberID,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter selects the copy's history plus the member's hold activity.
func BuildEventFilter(copyID uuid.UUID, memberID uuid.UUID) ledgerstore.Filter {
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
			core.MemberRegisteredEventType,
			core.MemberStandingChangedEventType,
		).
		AndAnyPredicateOf(
			ledgerstore.P("CopyID", copyID.String()),
			ledgerstore.P("MemberID", memberID.String()),
		).
		Finalize()
}
