package core

import (
	"time"

	"github.com/google/uuid"
)

// FeeAssessedEventType is the event type identifier.
const FeeAssessedEventType = "FeeAssessed"

// FeeAssessed represents an overdue fee being charged against a member for a closed
// borrowing transaction. Amounts are in cents; fee collection happens elsewhere.
type FeeAssessed struct {
	EventType     string
	CopyID        CopyIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	TransactionID TransactionIDString
	AmountCents   FeeCentsInt64
	OccurredAt    OccurredAtTS
}

// BuildFeeAssessed creates a new FeeAssessed event.
func BuildFeeAssessed(
	copyID uuid.UUID,
	libraryID uuid.UUID,
	memberID MemberIDString,
	transactionID TransactionIDString,
	amountCents FeeCentsInt64,
	occurredAt time.Time,
) FeeAssessed {

	return FeeAssessed{
		EventType:     FeeAssessedEventType,
		CopyID:        copyID.String(),
		LibraryID:     libraryID.String(),
		MemberID:      memberID,
		TransactionID: transactionID,
		AmountCents:   amountCents,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e FeeAssessed) IsEventType() string {
	return FeeAssessedEventType
}

// HasOccurredAt returns when this event occurred.
func (e FeeAssessed) HasOccurredAt() time.Time {
	return e.OccurredAt
}
