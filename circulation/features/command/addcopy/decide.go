package addcopy

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
)

const (
	reasonCopyRetired       = "retired copies do not return to circulation"
	reasonCatalogRefDiffers = "copy id is already registered under a different catalog reference"
	reasonOtherLibrary      = "copy id is already registered with a different library"
)

// Decide determines whether adding the copy commits a record. Re-adding a
// copy under the same catalog reference is idempotent; retirement is
// irreversible.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	copySnapshot := core.ProjectCopy(history, command.CopyID.String())

	if copySnapshot.Exists {
		if copySnapshot.LibraryID != command.LibraryID.String() {
			return core.RejectedDecision(core.RejectionInvalidState, reasonOtherLibrary)
		}

		if copySnapshot.State == core.StateRetired {
			return core.RejectedDecision(core.RejectionInvalidState, reasonCopyRetired)
		}

		if copySnapshot.CatalogRef != command.CatalogRef {
			return core.RejectedDecision(core.RejectionInvalidState, reasonCatalogRefDiffers)
		}

		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildCopyAddedToInventory(
		command.CopyID,
		command.LibraryID,
		command.CatalogRef,
		command.OccurredAt,
	))
}

// BuildEventFilter selects the inventory lifecycle events of the copy.
func BuildEventFilter(copyID uuid.UUID) ledgerstore.Filter {
	return ledgerstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyAddedToInventoryEventType,
			core.CopyRetiredEventType,
		).
		AndAnyPredicateOf(
			ledgerstore.P("CopyID", copyID.String()),
		).
		Finalize()
}
