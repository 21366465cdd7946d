package returncopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
)

const commandType = "ReturnCopy"

// Command represents the intent to return a checked-out copy.
type Command struct {
	CopyID            uuid.UUID
	LibraryID         uuid.UUID
	StaffID           string
	ObservedCondition string
	OccurredAt        core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(copyID uuid.UUID, libraryID uuid.UUID, staffID string, observedCondition string, occurredAt time.Time) Command {
	return Command{
		CopyID:            copyID,
		LibraryID:         libraryID,
		StaffID:           staffID,
		ObservedCondition: observedCondition,
		OccurredAt:        core.ToOccurredAt(occurredAt),
	}
}
