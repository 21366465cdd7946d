package placehold

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
)

const commandType = "PlaceHold"

// Command represents the intent to join the hold queue of a checked-out copy.
type Command struct {
	CopyID     uuid.UUID
	LibraryID  uuid.UUID
	MemberID   uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(copyID uuid.UUID, libraryID uuid.UUID, memberID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		CopyID:     copyID,
		LibraryID:  libraryID,
		MemberID:   memberID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
