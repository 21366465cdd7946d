package registermember

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
)

const reasonOtherLibrary = "member id is already registered with a different library"

// Decide determines whether the registration commits a record. Registering
// the same member twice is idempotent; member ids are globally unique, so a
// registration under a second library is rejected rather than shadowed.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	memberSnapshot := core.ProjectMember(history, command.MemberID.String())

	if memberSnapshot.Exists {
		if memberSnapshot.LibraryID != command.LibraryID.String() {
			return core.RejectedDecision(core.RejectionInvalidState, reasonOtherLibrary)
		}

		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildMemberRegistered(
		command.LibraryID,
		command.MemberID,
		command.OccurredAt,
	))
}

// BuildEventFilter selects the registration events of the member.
func BuildEventFilter(memberID uuid.UUID) ledgerstore.Filter {
	return ledgerstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.MemberRegisteredEventType,
		).
		AndAnyPredicateOf(
			ledgerstore.P("MemberID", memberID.String()),
		).
		Finalize()
}
