package core

import (
	"time"

	"github.com/google/uuid"
)

// CopyReturnedEventType is the event type identifier.
const CopyReturnedEventType = "CopyReturned"

// CopyReturned represents a copy coming back, closing its open borrowing transaction.
// When the return assesses a fee or fulfills a hold, the FeeAssessed / HoldFulfilled
// events are appended atomically together with this one.
type CopyReturned struct {
	EventType     string
	CopyID        CopyIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	TransactionID TransactionIDString
	Condition     string
	OccurredAt    OccurredAtTS
}

// BuildCopyReturned creates a new CopyReturned event. Holder and transaction
// come from the projected ledger state, so they are plain strings here.
func BuildCopyReturned(
	copyID uuid.UUID,
	libraryID uuid.UUID,
	memberID MemberIDString,
	transactionID TransactionIDString,
	condition string,
	occurredAt time.Time,
) CopyReturned {

	return CopyReturned{
		EventType:     CopyReturnedEventType,
		CopyID:        copyID.String(),
		LibraryID:     libraryID.String(),
		MemberID:      memberID,
		TransactionID: transactionID,
		Condition:     condition,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CopyReturned) IsEventType() string {
	return CopyReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}
