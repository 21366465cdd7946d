package copyavailability

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
)

// ProjectCopyAvailability implements the query logic for a copy's current
// availability. This is a pure function with no side effects.
func ProjectCopyAvailability(history core.DomainEvents, query Query) CopyAvailability {
	snapshot := core.ProjectCopy(history, query.CopyID.String())

	result := CopyAvailability{
		CopyID:    snapshot.CopyID,
		LibraryID: snapshot.LibraryID,
		Exists:    snapshot.Exists,
		State:     snapshot.State,
		HolderID:  snapshot.HolderID,
		DueDate:   snapshot.DueDate,
	}

	for _, entry := range snapshot.HoldQueue {
		result.HoldQueue = append(result.HoldQueue, entry.MemberID)
	}

	if snapshot.Reservation != nil {
		result.Reservation = &ReservationInfo{
			MemberID:       snapshot.Reservation.MemberID,
			PickupDeadline: snapshot.Reservation.PickupDeadline,
		}
	}

	return result
}

// BuildEventFilter creates the filter for querying events related to the specified copy.
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
