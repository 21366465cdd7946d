package memberloans

import (
	"time"

	"github.com/shelfwise/circulate/circulation/core"
)

// LoanInfo represents one open loan held by the member.
type LoanInfo struct {
	CopyID        core.CopyIDString
	TransactionID core.TransactionIDString
	DueDate       time.Time
	CheckedOutAt  time.Time
}

// MemberLoans represents the query result for one member.
type MemberLoans struct {
	MemberID            core.MemberIDString
	Exists              bool
	Standing            core.StandingString
	OutstandingFeeCents core.FeeCentsInt64
	Loans               []LoanInfo
	Count               int
}
