package renewloan

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
)

const commandType = "RenewLoan"

// Command represents the intent to renew the member's current loan on a copy.
// NewTransactionID is assigned up front so a retried append commits the same
// renewal transaction instead of minting a second one.
type Command struct {
	CopyID           uuid.UUID
	LibraryID        uuid.UUID
	MemberID         uuid.UUID
	StaffID          string
	NewTransactionID uuid.UUID
	OccurredAt       core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh transaction id for the renewal.
func BuildCommand(copyID uuid.UUID, libraryID uuid.UUID, memberID uuid.UUID, staffID string, occurredAt time.Time) Command {
	return Command{
		CopyID:           copyID,
		LibraryID:        libraryID,
		MemberID:         memberID,
		StaffID:          staffID,
		NewTransactionID: uuid.New(),
		OccurredAt:       core.ToOccurredAt(occurredAt),
	}
}
