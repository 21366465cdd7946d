package core

import (
	"time"

	"github.com/google/uuid"
)

// MemberStandingChangedEventType is the event type identifier.
const MemberStandingChangedEventType = "MemberStandingChanged"

// MemberStandingChanged represents a staff decision about a member's standing.
// Standing is checked at command time by the checkout gate; it is never persisted as
// a separate flag.
type MemberStandingChanged struct {
	EventType  string
	LibraryID  LibraryIDString
	MemberID   MemberIDString
	Standing   StandingString
	OccurredAt OccurredAtTS
}

// BuildMemberStandingChanged creates a new MemberStandingChanged event.
func BuildMemberStandingChanged(libraryID uuid.UUID, memberID uuid.UUID, standing StandingString, occurredAt time.Time) MemberStandingChanged {
	return MemberStandingChanged{
		EventType:  MemberStandingChangedEventType,
		LibraryID:  libraryID.String(),
		MemberID:   memberID.String(),
		Standing:   standing,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e MemberStandingChanged) IsEventType() string {
	return MemberStandingChangedEventType
}

// HasOccurredAt returns when this event occurred.
func (e MemberStandingChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}
