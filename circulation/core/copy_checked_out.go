package core

import (
	"time"

	"github.com/google/uuid"
)

// CopyCheckedOutEventType is the event type identifier.
const CopyCheckedOutEventType = "CopyCheckedOut"

// CopyCheckedOut represents a copy being lent to a member, opening a new borrowing
// transaction with the given due date. A checkout of a reserved copy by the reserved
// member is the same event; the projection clears the reservation.
type CopyCheckedOut struct {
	EventType     string
	CopyID        CopyIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	TransactionID TransactionIDString
	DueDate       time.Time
	OccurredAt    OccurredAtTS
}

// BuildCopyCheckedOut creates a new CopyCheckedOut event.
func BuildCopyCheckedOut(
	copyID uuid.UUID,
	libraryID uuid.UUID,
	memberID uuid.UUID,
	transactionID uuid.UUID,
	dueDate time.Time,
	occurredAt time.Time,
) CopyCheckedOut {

	return CopyCheckedOut{
		EventType:     CopyCheckedOutEventType,
		CopyID:        copyID.String(),
		LibraryID:     libraryID.String(),
		MemberID:      memberID.String(),
		TransactionID: transactionID.String(),
		DueDate:       ToOccurredAt(dueDate),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CopyCheckedOut) IsEventType() string {
	return CopyCheckedOutEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyCheckedOut) HasOccurredAt() time.Time {
	return e.OccurredAt
}
