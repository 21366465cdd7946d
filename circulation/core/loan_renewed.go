package core

import (
	"time"

	"github.com/google/uuid"
)

// LoanRenewedEventType is the event type identifier.
const LoanRenewedEventType = "LoanRenewed"

// LoanRenewed represents a renewal: the prior borrowing transaction is closed and a
// new one opened with a fresh due date, in one atomic record. The copy stays checked
// out to the same member.
type LoanRenewed struct {
	EventType           string
	CopyID              CopyIDString
	LibraryID           LibraryIDString
	MemberID            MemberIDString
	ClosedTransactionID TransactionIDString
	TransactionID       TransactionIDString
	DueDate             time.Time
	OccurredAt          OccurredAtTS
}

// BuildLoanRenewed creates a new LoanRenewed event.
func BuildLoanRenewed(
	copyID uuid.UUID,
	libraryID uuid.UUID,
	memberID uuid.UUID,
	closedTransactionID string,
	transactionID uuid.UUID,
	dueDate time.Time,
	occurredAt time.Time,
) LoanRenewed {

	return LoanRenewed{
		EventType:           LoanRenewedEventType,
		CopyID:              copyID.String(),
		LibraryID:           libraryID.String(),
		MemberID:            memberID.String(),
		ClosedTransactionID: closedTransactionID,
		TransactionID:       transactionID.String(),
		DueDate:             ToOccurredAt(dueDate),
		OccurredAt:          ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanRenewed) IsEventType() string {
	return LoanRenewedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanRenewed) HasOccurredAt() time.Time {
	return e.OccurredAt
}
