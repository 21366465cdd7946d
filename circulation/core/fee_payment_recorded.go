package core

import (
	"time"

	"github.com/google/uuid"
)

// FeePaymentRecordedEventType is the event type identifier.
const FeePaymentRecordedEventType = "FeePaymentRecorded"

// FeePaymentRecorded represents a payment against a member's outstanding fees.
// Only the outcome is recorded here so the checkout gate has current data; the
// payment itself is handled outside this subsystem.
type FeePaymentRecorded struct {
	EventType   string
	LibraryID   LibraryIDString
	MemberID    MemberIDString
	AmountCents FeeCentsInt64
	OccurredAt  OccurredAtTS
}

// BuildFeePaymentRecorded creates a new FeePaymentRecorded event.
func BuildFeePaymentRecorded(libraryID uuid.UUID, memberID uuid.UUID, amountCents FeeCentsInt64, occurredAt time.Time) FeePaymentRecorded {
	return FeePaymentRecorded{
		EventType:   FeePaymentRecordedEventType,
		LibraryID:   libraryID.String(),
		MemberID:    memberID.String(),
		AmountCents: amountCents,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e FeePaymentRecorded) IsEventType() string {
	return FeePaymentRecordedEventType
}

// HasOccurredAt returns when this event occurred.
func (e FeePaymentRecorded) HasOccurredAt() time.Time {
	return e.OccurredAt
}
