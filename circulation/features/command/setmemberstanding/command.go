package setmemberstanding

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
)

const commandType = "SetMemberStanding"

// Command represents the intent to change a member's standing.
type Command struct {
	MemberID   uuid.UUID
	LibraryID  uuid.UUID
	Standing   core.StandingString
	StaffID    string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(memberID uuid.UUID, libraryID uuid.UUID, standing core.StandingString, staffID string, occurredAt time.Time) Command {
	return Command{
		MemberID:   memberID,
		LibraryID:  libraryID,
		Standing:   standing,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
