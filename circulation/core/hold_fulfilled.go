package core

import (
	"time"

	"github.com/google/uuid"
)

// HoldFulfilledEventType is the event type identifier.
const HoldFulfilledEventType = "HoldFulfilled"

// HoldFulfilled represents the head of the hold queue being given the copy: the copy
// is reserved for this member until the pickup deadline. Pickup is an ordinary
// checkout restricted to the reserved member.
type HoldFulfilled struct {
	EventType      string
	CopyID         CopyIDString
	LibraryID      LibraryIDString
	MemberID       MemberIDString
	PickupDeadline time.Time
	OccurredAt     OccurredAtTS
}

// BuildHoldFulfilled creates a new HoldFulfilled event.
func BuildHoldFulfilled(
	copyID uuid.UUID,
	libraryID uuid.UUID,
	memberID MemberIDString,
	pickupDeadline time.Time,
	occurredAt time.Time,
) HoldFulfilled {

	return HoldFulfilled{
		EventType:      HoldFulfilledEventType,
		CopyID:         copyID.String(),
		LibraryID:      libraryID.String(),
		MemberID:       memberID,
		PickupDeadline: ToOccurredAt(pickupDeadline),
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e HoldFulfilled) IsEventType() string {
	return HoldFulfilledEventType
}

// HasOccurredAt returns when this event occurred.
func (e HoldFulfilled) HasOccurredAt() time.Time {
	return e.OccurredAt
}
