package core

import (
	"time"

	"github.com/google/uuid"
)

// CopyAddedToInventoryEventType is the event type identifier.
const CopyAddedToInventoryEventType = "CopyAddedToInventory"

// CopyAddedToInventory represents a physical copy entering circulation.
// The catalog reference is opaque to this subsystem; book metadata lives in the
// external catalog service.
type CopyAddedToInventory struct {
	EventType  string
	CopyID     CopyIDString
	LibraryID  LibraryIDString
	CatalogRef CatalogRefString
	OccurredAt OccurredAtTS
}

// BuildCopyAddedToInventory creates a new CopyAddedToInventory event.
func BuildCopyAddedToInventory(copyID uuid.UUID, libraryID uuid.UUID, catalogRef string, occurredAt time.Time) CopyAddedToInventory {
	return CopyAddedToInventory{
		EventType:  CopyAddedToInventoryEventType,
		CopyID:     copyID.String(),
		LibraryID:  libraryID.String(),
		CatalogRef: catalogRef,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CopyAddedToInventory) IsEventType() string {
	return CopyAddedToInventoryEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyAddedToInventory) HasOccurredAt() time.Time {
	return e.OccurredAt
}
