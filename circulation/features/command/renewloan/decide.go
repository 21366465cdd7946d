package renewloan

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
)

const (
	reasonCopyNotFound     = "copy is not in this library's inventory"
	reasonNotCheckedOut    = "copy has no open borrowing transaction"
	reasonNotCurrentHolder = "copy is checked out to a different member"
	reasonPendingHolds     = "copy has pending holds; the waiting member takes priority"
	reasonRenewalLimit     = "renewal limit reached for this loan"
)

// Decide determines whether the loan can be renewed. A renewal closes the open
// borrowing transaction and opens a new one with a fresh due date in a single
// atomic record; the copy stays checked out to the same member.
//
// Business rules:
//
//	GIVEN: a copy checked out to the requesting member
//	WHEN: RenewLoan is received
//	THEN: LoanRenewed with due date = now + loan period
//	REJECT NotFound: copy unknown
//	REJECT InvalidState: copy not checked out, or held by a different member
//	REJECT Unavailable: any member is queued for this copy
//	REJECT PolicyViolation: renewal count at the policy limit
func Decide(history core.DomainEvents, command Command, p policy.Policy) core.DecisionResult {
	copySnapshot := core.ProjectCopy(history, command.CopyID.String())

	if !copySnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonCopyNotFound)
	}

	if copySnapshot.State != core.StateCheckedOut {
		return core.RejectedDecision(core.RejectionInvalidState, reasonNotCheckedOut)
	}

	if !copySnapshot.IsHeldBy(command.MemberID.String()) {
		return core.RejectedDecision(core.RejectionInvalidState, reasonNotCurrentHolder)
	}

	if len(copySnapshot.HoldQueue) > 0 {
		return core.RejectedDecision(core.RejectionUnavailable, reasonPendingHolds)
	}

	if copySnapshot.RenewalCount >= p.MaxRenewals {
		return core.RejectedDecision(core.RejectionPolicyViolation, reasonRenewalLimit)
	}

	return core.SuccessDecision(
		core.BuildLoanRenewed(
			command.CopyID,
			command.LibraryID,
			command.MemberID,
			copySnapshot.OpenTransactionID,
			command.NewTransactionID,
			command.OccurredAt.Add(p.LoanPeriod()),
			command.OccurredAt,
		),
	)
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
