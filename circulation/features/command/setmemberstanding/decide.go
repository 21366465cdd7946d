package setmemberstanding

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
)

const (
	reasonMemberNotFound  = "member is not registered with this library"
	reasonUnknownStanding = "standing must be active, restricted or banned"
)

// Decide determines whether the standing change commits a record. Setting
// the standing a member already has is idempotent.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !isKnownStanding(command.Standing) {
		return core.RejectedDecision(core.RejectionPolicyViolation, reasonUnknownStanding)
	}

	memberSnapshot := core.ProjectMember(history, command.MemberID.String())

	if !memberSnapshot.InLibrary(command.LibraryID.String()) {
		return core.RejectedDecision(core.RejectionNotFound, reasonMemberNotFound)
	}

	if memberSnapshot.Standing == command.Standing {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildMemberStandingChanged(
		command.LibraryID,
		command.MemberID,
		command.Standing,
		command.OccurredAt,
	))
}

func isKnownStanding(standing core.StandingString) bool {
	switch standing {
	case core.StandingActive, core.StandingRestricted, core.StandingBanned:
		return true
	}

	return false
}

// BuildEventFilter selects the registration and standing events of the member.
func BuildEventFilter(memberID uuid.UUID) ledgerstore.Filter {
	return ledgerstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.MemberRegisteredEventType,
			core.MemberStandingChangedEventType,
		).
		AndAnyPredicateOf(
			ledgerstore.P("MemberID", memberID.String()),
		).
		Finalize()
}
