package checkoutcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
)

const commandType = "CheckoutCopy"

// Command represents the intent to check a copy out to a member.
// TransactionID is assigned up front so a retried append commits the same
// borrowing transaction instead of minting a second one.
type Command struct {
	CopyID        uuid.UUID
	LibraryID     uuid.UUID
	MemberID      uuid.UUID
	StaffID       string
	TransactionID uuid.UUID
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh transaction id.
func BuildCommand(copyID uuid.UUID, libraryID uuid.UUID, memberID uuid.UUID, staffID string, occurredAt time.Time) Command {
	return Command{
		CopyID:        copyID,
		LibraryID:     libraryID,
		MemberID:      memberID,
		StaffID:       staffID,
		TransactionID: uuid.New(),
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
