package registermember

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
)

const commandType = "RegisterMember"

// Command represents the intent to register a new borrowing member.
type Command struct {
	MemberID   uuid.UUID
	LibraryID  uuid.UUID
	StaffID    string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(memberID uuid.UUID, libraryID uuid.UUID, staffID string, occurredAt time.Time) Command {
	return Command{
		MemberID:   memberID,
		LibraryID:  libraryID,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
