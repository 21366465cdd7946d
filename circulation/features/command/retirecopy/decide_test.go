package retirecopy_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/features/command/retirecopy"
)

func Test_Decide_Success_AvailableCopy(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-time.Hour)),
	}

	command := retirecopy.BuildCommand(copyID, libraryID, "staff-1", now)

	// act
	result := retirecopy.Decide(events, command)

	// assert
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 1)

	retired, ok := result.Events[0].(core.CopyRetired)
	require.True(t, ok)
	assert.Equal(t, copyID.String(), retired.CopyID)
}

func Test_Decide_Success_CheckedOutCopy_ClosesTheOpenLoan(t *testing.T) {
	// arrange - administrative removal overrides the open loan
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	transactionID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-48*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, memberID, transactionID, now.Add(14*24*time.Hour), now.Add(-24*time.Hour)),
	}

	command := retirecopy.BuildCommand(copyID, libraryID, "staff-1", now)

	// act
	result := retirecopy.Decide(events, command)

	// assert - the holder's transaction is closed in the same append
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 2)

	returned, ok := result.Events[0].(core.CopyReturned)
	require.True(t, ok)
	assert.Equal(t, memberID.String(), returned.MemberID)
	assert.Equal(t, transactionID.String(), returned.TransactionID)
	assert.Equal(t, "retired", returned.Condition)

	_, ok = result.Events[1].(core.CopyRetired)
	require.True(t, ok)
}

func Test_Decide_Idempotent_AlreadyRetired(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-2*time.Hour)),
		core.BuildCopyRetired(copyID, libraryID, now.Add(-time.Hour)),
	}

	command := retirecopy.BuildCommand(copyID, libraryID, "staff-1", now)

	// act
	result := retirecopy.Decide(events, command)

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_NotFound_CopyBelongsToAnotherLibrary(t *testing.T) {
	// arrange
	copyID := uuid.New()
	owningLibraryID := uuid.New()
	otherLibraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, owningLibraryID, "cat-1", now.Add(-time.Hour)),
	}

	command := retirecopy.BuildCommand(copyID, otherLibraryID, "staff-1", now)

	// act
	result := retirecopy.Decide(events, command)

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionNotFound, result.Rejection.Kind)
}

func Test_Decide_NotFound_UnknownCopy(t *testing.T) {
	// arrange
	command := retirecopy.BuildCommand(uuid.New(), uuid.New(), "staff-1", time.Now())

	// act
	result := retirecopy.Decide(core.DomainEvents{}, command)

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionNotFound, result.Rejection.Kind)
}
