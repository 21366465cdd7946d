package memberloans

import (
	"slices"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
)

// ProjectMemberLoans implements the query logic for a member's open loans.
// This is a pure function with no side effects - it takes the current domain
// events and a query and returns the member's open loans, oldest first, along
// with the fee balance.
func ProjectMemberLoans(history core.DomainEvents, query Query) MemberLoans {
	queriedMemberID := query.MemberID.String()

	memberSnapshot := core.ProjectMember(history, queriedMemberID)

	openLoans := make(map[core.CopyIDString]*LoanInfo)

	for _, event := range history {
		switch e := event.(type) {
		case core.CopyCheckedOut:
			if e.MemberID == queriedMemberID {
				openLoans[e.CopyID] = &LoanInfo{
					CopyID:        e.CopyID,
					TransactionID: e.TransactionID,
					DueDate:       e.DueDate,
					CheckedOutAt:  e.OccurredAt,
				}
			}

		case core.LoanRenewed:
			if e.MemberID == queriedMemberID {
				if loan, ok := openLoans[e.CopyID]; ok {
					loan.TransactionID = e.TransactionID
					loan.DueDate = e.DueDate
				}
			}

		case core.CopyReturned:
			if e.MemberID == queriedMemberID {
				delete(openLoans, e.CopyID)
			}

		case core.CopyRetired:
			delete(openLoans, e.CopyID)
		}
	}

	loans := make([]LoanInfo, 0, len(openLoans))
	for _, loanPtr := range openLoans {
		loans = append(loans, *loanPtr)
	}
	slices.SortFunc(loans, func(a, b LoanInfo) int {
		return a.CheckedOutAt.Compare(b.CheckedOutAt)
	})

	return MemberLoans{
		MemberID:            queriedMemberID,
		Exists:              memberSnapshot.Exists,
		Standing:            memberSnapshot.Standing,
		OutstandingFeeCents: memberSnapshot.OutstandingFeeCents,
		Loans:               loans,
		Count:               len(loans),
	}
}

// BuildEventFilter creates the filter for querying events related to the specified member.
// Retirement events are included without a member predicate so a loan that
// ends by administrative removal still drops off the list.
func BuildEventFilter(memberID uuid.UUID) ledgerstore.Filter {
	return ledgerstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.MemberRegisteredEventType,
			core.MemberStandingChangedEventType,
			core.CopyCheckedOutEventType,
			core.CopyReturnedEventType,
			core.LoanRenewedEventType,
			core.FeeAssessedEventType,
			core.FeePaymentRecordedEventType,
		).
		AndAnyPredicateOf(
			ledgerstore.P("MemberID", memberID.String()),
		).
		OrMatching().
		AnyEventTypeOf(
			core.CopyRetiredEventType,
		).
		Finalize()
}
