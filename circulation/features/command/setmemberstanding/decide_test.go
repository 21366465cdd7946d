package setmemberstanding_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/features/command/setmemberstanding"
)

func Test_Decide_Success_RestrictActiveMember(t *testing.T) {
	// arrange
	memberID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-time.Hour)),
	}

	command := setmemberstanding.BuildCommand(memberID, libraryID, core.StandingRestricted, "staff-1", now)

	// act
	result := setmemberstanding.Decide(events, command)

	// assert
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 1)

	changed, ok := result.Events[0].(core.MemberStandingChanged)
	require.True(t, ok)
	assert.Equal(t, core.StandingRestricted, changed.Standing)
}

func Test_Decide_Idempotent_SameStanding(t *testing.T) {
	// arrange - registration already implies active
	memberID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-time.Hour)),
	}

	command := setmemberstanding.BuildCommand(memberID, libraryID, core.StandingActive, "staff-1", now)

	// act
	result := setmemberstanding.Decide(events, command)

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Success_ReinstateBannedMember(t *testing.T) {
	// arrange
	memberID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-48*time.Hour)),
		core.BuildMemberStandingChanged(libraryID, memberID, core.StandingBanned, now.Add(-24*time.Hour)),
	}

	command := setmemberstanding.BuildCommand(memberID, libraryID, core.StandingActive, "staff-1", now)

	// act
	result := setmemberstanding.Decide(events, command)

	// assert
	require.True(t, result.HasEventsToAppend())

	changed, ok := result.Events[0].(core.MemberStandingChanged)
	require.True(t, ok)
	assert.Equal(t, core.StandingActive, changed.Standing)
}

func Test_Decide_PolicyViolation_UnknownStanding(t *testing.T) {
	// arrange
	memberID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-time.Hour)),
	}

	command := setmemberstanding.BuildCommand(memberID, libraryID, "suspended", "staff-1", now)

	// act
	result := setmemberstanding.Decide(events, command)

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionPolicyViolation, result.Rejection.Kind)
}

func Test_Decide_NotFound_MemberBelongsToAnotherLibrary(t *testing.T) {
	// arrange
	memberID := uuid.New()
	owningLibraryID := uuid.New()
	otherLibraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildMemberRegistered(owningLibraryID, memberID, now.Add(-time.Hour)),
	}

	command := setmemberstanding.BuildCommand(memberID, otherLibraryID, core.StandingBanned, "staff-1", now)

	// act
	result := setmemberstanding.Decide(events, command)

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionNotFound, result.Rejection.Kind)
}

func Test_Decide_NotFound_UnknownMember(t *testing.T) {
	// arrange
	command := setmemberstanding.BuildCommand(uuid.New(), uuid.New(), core.StandingBanned, "staff-1", time.Now())

	// act
	result := setmemberstanding.Decide(core.DomainEvents{}, command)

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionNotFound, result.Rejection.Kind)
}
