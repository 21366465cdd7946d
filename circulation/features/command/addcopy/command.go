package addcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
)

const commandType = "AddCopy"

// Command represents the intent to add a physical copy to a library's inventory.
type Command struct {
	CopyID     uuid.UUID
	LibraryID  uuid.UUID
	CatalogRef string
	StaffID    string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(copyID uuid.UUID, libraryID uuid.UUID, catalogRef string, staffID string, occurredAt time.Time) Command {
	return Command{
		CopyID:     copyID,
		LibraryID:  libraryID,
		CatalogRef: catalogRef,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
