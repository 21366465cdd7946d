package overdueloans

import (
	"time"

	"github.com/shelfwise/circulate/circulation/core"
)

// OverdueLoanInfo represents one loan past its due date.
type OverdueLoanInfo struct {
	CopyID        core.CopyIDString
	MemberID      core.MemberIDString
	TransactionID core.TransactionIDString
	DueDate       time.Time
	LateDays      int
}

// OverdueLoans represents the query result for one library.
type OverdueLoans struct {
	LibraryID core.LibraryIDString
	AsOf      time.Time
	Loans     []OverdueLoanInfo
	Count     int
}
