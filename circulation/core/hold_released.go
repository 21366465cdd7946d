package core

import (
	"time"

	"github.com/google/uuid"
)

// HoldReleasedEventType is the event type identifier.
const HoldReleasedEventType = "HoldReleased"

// HoldReleased represents a hold leaving the queue without a pickup, either because
// the member cancelled it or because the pickup deadline of a reservation elapsed.
type HoldReleased struct {
	EventType  string
	CopyID     CopyIDString
	LibraryID  LibraryIDString
	MemberID   MemberIDString
	Reason     HoldReleaseReasonString
	OccurredAt OccurredAtTS
}

// BuildHoldReleased creates a new HoldReleased event.
func BuildHoldReleased(
	copyID uuid.UUID,
	libraryID uuid.UUID,
	memberID MemberIDString,
	reason HoldReleaseReasonString,
	occurredAt time.Time,
) HoldReleased {

	return HoldReleased{
		EventType:  HoldReleasedEventType,
		CopyID:     copyID.String(),
		LibraryID:  libraryID.String(),
		MemberID:   memberID,
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e HoldReleased) IsEventType() string {
	return HoldReleasedEventType
}

// HasOccurredAt returns when this event occurred.
func (e HoldReleased) HasOccurredAt() time.Time {
	return e.OccurredAt
}
