package core

import (
	"time"

	"github.com/google/uuid"
)

// HoldPlacedEventType is the event type identifier.
const HoldPlacedEventType = "HoldPlaced"

// HoldPlaced represents a member joining the hold queue of a checked-out copy.
// Queue order is the commit order of these events; ties on the request timestamp are
// broken by member id to keep the queue deterministic.
type HoldPlaced struct {
	EventType  string
	CopyID     CopyIDString
	LibraryID  LibraryIDString
	MemberID   MemberIDString
	OccurredAt OccurredAtTS
}

// BuildHoldPlaced creates a new HoldPlaced event.
func BuildHoldPlaced(copyID uuid.UUID, libraryID uuid.UUID, memberID uuid.UUID, occurredAt time.Time) HoldPlaced {
	return HoldPlaced{
		EventType:  HoldPlacedEventType,
		CopyID:     copyID.String(),
		LibraryID:  libraryID.String(),
		MemberID:   memberID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e HoldPlaced) IsEventType() string {
	return HoldPlacedEventType
}

// HasOccurredAt returns when this event occurred.
func (e HoldPlaced) HasOccurredAt() time.Time {
	return e.OccurredAt
}
