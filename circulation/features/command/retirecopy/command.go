package retirecopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
)

const commandType = "RetireCopy"

// Command represents the intent to remove a copy from circulation for good.
type Command struct {
	CopyID     uuid.UUID
	LibraryID  uuid.UUID
	StaffID    string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(copyID uuid.UUID, libraryID uuid.UUID, staffID string, occurredAt time.Time) Command {
	return Command{
		CopyID:     copyID,
		LibraryID:  libraryID,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
