package expirehold

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
)

const commandType = "ExpireHold"

// Command represents the intent to release a reservation whose pickup
// window has elapsed. Issued by an operator or the expiry scheduler,
// never by the read-only sweep.
type Command struct {
	CopyID     uuid.UUID
	LibraryID  uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(copyID uuid.UUID, libraryID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		CopyID:     copyID,
		LibraryID:  libraryID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
