package overdueloans

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/fees"
	"github.com/shelfwise/circulate/ledgerstore"
)

// ProjectOverdueLoans implements the query logic to find overdue loans in a
// library. This is a pure function with no side effects - it folds the loan
// events of the library into the set of open loans and keeps those whose due
// date lies before the reference time, most overdue first.
func ProjectOverdueLoans(history core.DomainEvents, query Query) OverdueLoans {
	queriedLibraryID := query.LibraryID.String()

	openLoans := make(map[core.CopyIDString]*OverdueLoanInfo)

	for _, event := range history {
		switch e := event.(type) {
		case core.CopyCheckedOut:
			if e.LibraryID == queriedLibraryID {
				openLoans[e.CopyID] = &OverdueLoanInfo{
					CopyID:        e.CopyID,
					MemberID:      e.MemberID,
					TransactionID: e.TransactionID,
					DueDate:       e.DueDate,
				}
			}

		case core.LoanRenewed:
			if e.LibraryID == queriedLibraryID {
				if loan, ok := openLoans[e.CopyID]; ok {
					loan.TransactionID = e.TransactionID
					loan.DueDate = e.DueDate
				}
			}

		case core.CopyReturned:
			delete(openLoans, e.CopyID)

		case core.CopyRetired:
			delete(openLoans, e.CopyID)
		}
	}

	loans := make([]OverdueLoanInfo, 0, len(openLoans))

	for _, loanPtr := range openLoans {
		if !fees.IsOverdue(loanPtr.DueDate, query.AsOf) {
			continue
		}

		loan := *loanPtr
		loan.LateDays = fees.LateDays(loan.DueDate, query.AsOf)
		loans = append(loans, loan)
	}

	slices.SortFunc(loans, func(a, b OverdueLoanInfo) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}

		return strings.Compare(a.CopyID, b.CopyID)
	})

	return OverdueLoans{
		LibraryID: queriedLibraryID,
		AsOf:      query.AsOf,
		Loans:     loans,
		Count:     len(loans),
	}
}

// BuildEventFilter creates the filter for querying the loan events of the library.
func BuildEventFilter(libraryID uuid.UUID) ledgerstore.Filter {
	return ledgerstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyCheckedOutEventType,
			core.CopyReturnedEventType,
			core.LoanRenewedEventType,
			core.CopyRetiredEventType,
		).
		AndAnyPredicateOf(
			ledgerstore.P("LibraryID", libraryID.String()),
		).
		Finalize()
}
