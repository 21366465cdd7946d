package core

import (
	"time"

	"github.com/google/uuid"
)

// MemberRegisteredEventType is the event type identifier.
const MemberRegisteredEventType = "MemberRegistered"

// MemberRegistered represents a patron joining a library, in active standing.
type MemberRegistered struct {
	EventType  string
	LibraryID  LibraryIDString
	MemberID   MemberIDString
	OccurredAt OccurredAtTS
}

// BuildMemberRegistered creates a new MemberRegistered event.
func BuildMemberRegistered(libraryID uuid.UUID, memberID uuid.UUID, occurredAt time.Time) MemberRegistered {
	return MemberRegistered{
		EventType:  MemberRegisteredEventType,
		LibraryID:  libraryID.String(),
		MemberID:   memberID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e MemberRegistered) IsEventType() string {
	return MemberRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e MemberRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}
