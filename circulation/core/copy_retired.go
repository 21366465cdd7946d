package core

import (
	"time"

	"github.com/google/uuid"
)

// CopyRetiredEventType is the event type identifier.
const CopyRetiredEventType = "CopyRetired"

// CopyRetired represents a copy being removed from circulation for good.
// Retirement is terminal; historical transactions keep referencing the copy id.
type CopyRetired struct {
	EventType  string
	CopyID     CopyIDString
	LibraryID  LibraryIDString
	OccurredAt OccurredAtTS
}

// BuildCopyRetired creates a new CopyRetired event.
func BuildCopyRetired(copyID uuid.UUID, libraryID uuid.UUID, occurredAt time.Time) CopyRetired {
	return CopyRetired{
		EventType:  CopyRetiredEventType,
		CopyID:     copyID.String(),
		LibraryID:  libraryID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CopyRetired) IsEventType() string {
	return CopyRetiredEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyRetired) HasOccurredAt() time.Time {
	return e.OccurredAt
}
