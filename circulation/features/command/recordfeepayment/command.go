package recordfeepayment

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
)

const commandType = "RecordFeePayment"

// Command represents the intent to record a payment against a member's
// outstanding fees. Payment collection happens elsewhere; this only books
// the amount.
type Command struct {
	MemberID    uuid.UUID
	LibraryID   uuid.UUID
	AmountCents core.FeeCentsInt64
	StaffID     string
	OccurredAt  core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(memberID uuid.UUID, libraryID uuid.UUID, amountCents core.FeeCentsInt64, staffID string, occurredAt time.Time) Command {
	return Command{
		MemberID:    memberID,
		LibraryID:   libraryID,
		AmountCents: amountCents,
		StaffID:     staffID,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
