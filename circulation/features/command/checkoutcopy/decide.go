package checkoutcopy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
)

const (
	reasonCopyNotFound         = "copy is not in this library's inventory"
	reasonCopyRetired          = "copy is retired from circulation"
	reasonCopyCheckedOut       = "copy is checked out to another member"
	reasonCopyReservedForOther = "copy is reserved for another member"
	reasonMemberNotFound       = "member is not registered with this library"
	reasonMemberNotInStanding  = "member standing does not permit checkouts"
	reasonFeesOverThreshold    = "member's outstanding fees exceed the checkout threshold"
	reasonTooManyOpenLoans     = "member has reached the open loan limit"
)

// Decide determines whether the copy can be checked out to the member.
// Pure function over the event history, the command, and the library policy.
//
// Business rules:
//
//	GIVEN: a copy and a member of the same library
//	WHEN: CheckoutCopy is received
//	THEN: CopyCheckedOut with due date = now + loan period
//	REJECT NotFound: copy or member unknown, or belonging to another library
//	REJECT Unavailable: copy retired, checked out, or reserved for someone else
//	REJECT PolicyViolation: member banned/restricted, fees over threshold,
//	       or open loans at the policy cap
//	IDEMPOTENCY: copy already checked out to this member appends nothing
func Decide(history core.DomainEvents, command Command, p policy.Policy) core.DecisionResult {
	copySnapshot := core.ProjectCopy(history, command.CopyID.String())
	memberSnapshot := core.ProjectMember(history, command.MemberID.String())

	if !copySnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonCopyNotFound)
	}

	if !memberSnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonMemberNotFound)
	}

	if copySnapshot.IsHeldBy(command.MemberID.String()) {
		return core.IdempotentDecision()
	}

	switch copySnapshot.State {
	case core.StateRetired:
		return core.RejectedDecision(core.RejectionUnavailable, reasonCopyRetired)

	case core.StateCheckedOut:
		return core.RejectedDecision(core.RejectionUnavailable, reasonCopyCheckedOut)

	case core.StateReservedForHold:
		// Pickup of a reservation is an ordinary checkout restricted to the
		// reserved member; anyone else is turned away, never silently reassigned.
		if !copySnapshot.IsReservedFor(command.MemberID.String()) {
			return core.RejectedDecision(core.RejectionUnavailable, reasonCopyReservedForOther)
		}
	}

	if memberSnapshot.Standing != core.StandingActive {
		return core.RejectedDecision(core.RejectionPolicyViolation, reasonMemberNotInStanding)
	}

	if p.FeeBlockThresholdCents > 0 && memberSnapshot.OutstandingFeeCents >= p.FeeBlockThresholdCents {
		return core.RejectedDecision(core.RejectionPolicyViolation,
			fmt.Sprintf("%s (%d cents outstanding)", reasonFeesOverThreshold, memberSnapshot.OutstandingFeeCents))
	}

	if memberSnapshot.OpenLoanCount() >= p.MaxOpenLoans {
		return core.RejectedDecision(core.RejectionPolicyViolation, reasonTooManyOpenLoans)
	}

	return core.SuccessDecision(
		core.BuildCopyCheckedOut(
			command.CopyID,
			command.LibraryID,
			command.MemberID,
			command.TransactionID,
			command.OccurredAt.Add(p.LoanPeriod()),
			command.OccurredAt,
		),
	)
}

// BuildEventFilter selects every event relevant to this checkout: the full
// history of the copy and of the member.
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
			core.FeeAssessedEventType,
			core.FeePaymentRecordedEventType,
			core.MemberRegisteredEventType,
			core.MemberStandingChangedEventType,
		).
		AndAnyPredicateOf(
			ledgerstore.P("CopyID", copyID.String()),
			ledgerstore.P("MemberID", memberID.String()),
		).
		Finalize()
}
