package retirecopy

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
)

const (
	reasonCopyNotFound = "copy is not in this library's inventory"

	// retiredCondition marks the return that closes an open loan when its
	// copy leaves circulation.
	retiredCondition = "retired"
)

// Decide determines whether retiring the copy commits a record. Retirement
// is allowed from any non-retired state, including an open loan: the copy is
// gone (lost, damaged beyond repair) and the record must say so. Retiring a
// checked-out copy closes the open borrowing transaction in the same append,
// so the holder's loan slot is freed rather than leaked. Retiring an already
// retired copy is idempotent.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	copySnapshot := core.ProjectCopy(history, command.CopyID.String())

	if !copySnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonCopyNotFound)
	}

	if copySnapshot.State == core.StateRetired {
		return core.IdempotentDecision()
	}

	retired := core.BuildCopyRetired(
		command.CopyID,
		command.LibraryID,
		command.OccurredAt,
	)

	if copySnapshot.State == core.StateCheckedOut {
		return core.SuccessDecision(
			core.BuildCopyReturned(
				command.CopyID,
				command.LibraryID,
				copySnapshot.HolderID,
				copySnapshot.OpenTransactionID,
				retiredCondition,
				command.OccurredAt,
			),
			retired,
		)
	}

	return core.SuccessDecision(retired)
}

// BuildEventFilter selects the full event history of the copy. The broad
// filter makes the conditional append race-safe against concurrent checkouts
// and returns, not just against a duplicate retirement.
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
