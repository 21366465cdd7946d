package returncopy

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/fees"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
)

const (
	reasonCopyNotFound      = "copy is not in this library's inventory"
	reasonNoOpenTransaction = "copy has no open borrowing transaction"
)

// Decide determines what a return commits. One command can produce up to three
// records in a single atomic append: the return itself, a fee assessment when
// the loan came back late, and a hold fulfillment when members are waiting.
//
// Business rules:
//
//	GIVEN: a copy with an open borrowing transaction
//	WHEN: ReturnCopy is received
//	THEN: CopyReturned closing the transaction
//	 AND: FeeAssessed when the fee calculator yields a positive amount
//	 AND: HoldFulfilled for the next queued member, with a pickup deadline
//	REJECT NotFound: copy unknown
//	REJECT InvalidState: no open transaction (guards duplicate return submissions)
func Decide(history core.DomainEvents, command Command, p policy.Policy) core.DecisionResult {
	copySnapshot := core.ProjectCopy(history, command.CopyID.String())

	if !copySnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonCopyNotFound)
	}

	if copySnapshot.State != core.StateCheckedOut {
		return core.RejectedDecision(core.RejectionInvalidState, reasonNoOpenTransaction)
	}

	returned := core.BuildCopyReturned(
		command.CopyID,
		command.LibraryID,
		copySnapshot.HolderID,
		copySnapshot.OpenTransactionID,
		command.ObservedCondition,
		command.OccurredAt,
	)

	events := core.DomainEvents{}

	if fee := fees.Compute(copySnapshot.DueDate, command.OccurredAt, p); fee > 0 {
		events = append(events, core.BuildFeeAssessed(
			command.CopyID,
			command.LibraryID,
			copySnapshot.HolderID,
			copySnapshot.OpenTransactionID,
			fee,
			command.OccurredAt,
		))
	}

	if next, ok := copySnapshot.NextInLine(); ok {
		events = append(events, core.BuildHoldFulfilled(
			command.CopyID,
			command.LibraryID,
			next.MemberID,
			command.OccurredAt.Add(p.HoldPickupWindow()),
			command.OccurredAt,
		))
	}

	return core.SuccessDecision(returned, events...)
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
