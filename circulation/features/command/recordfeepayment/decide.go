package recordfeepayment

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
)

const (
	reasonMemberNotFound    = "member is not registered with this library"
	reasonNonPositiveAmount = "payment amount must be positive"
)

// Decide determines whether the payment commits a record. The booked amount
// is clamped to the outstanding balance so the balance never goes negative;
// paying against a zero balance is idempotent.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.AmountCents <= 0 {
		return core.RejectedDecision(core.RejectionPolicyViolation, reasonNonPositiveAmount)
	}

	memberSnapshot := core.ProjectMember(history, command.MemberID.String())

	if !memberSnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonMemberNotFound)
	}

	if memberSnapshot.OutstandingFeeCents == 0 {
		return core.IdempotentDecision()
	}

	amount := min(command.AmountCents, memberSnapshot.OutstandingFeeCents)

	return core.SuccessDecision(core.BuildFeePaymentRecorded(
		command.LibraryID,
		command.MemberID,
		amount,
		command.OccurredAt,
	))
}

// BuildEventFilter selects the registration and fee events of the member.
func BuildEventFilter(memberID uuid.UUID) ledgerstore.Filter {
	return ledgerstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.MemberRegisteredEventType,
			core.FeeAssessedEventType,
			core.FeePaymentRecordedEventType,
		).
		AndAnyPredicateOf(
			ledgerstore.P("MemberID", memberID.String()),
		).
		Finalize()
}
