package addcopy_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/features/command/addcopy"
)

func Test_Decide_Success_NewCopy(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	command := addcopy.BuildCommand(copyID, libraryID, "cat-1", "staff-1", now)

	// act
	result := addcopy.Decide(core.DomainEvents{}, command)

	// assert
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 1)

	added, ok := result.Events[0].(core.CopyAddedToInventory)
	require.True(t, ok)
	assert.Equal(t, copyID.String(), added.CopyID)
	assert.Equal(t, "cat-1", added.CatalogRef)
}

func Test_Decide_Idempotent_SameCatalogRef(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-time.Hour)),
	}

	command := addcopy.BuildCommand(copyID, libraryID, "cat-1", "staff-1", now)

	// act
	result := addcopy.Decide(events, command)

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_InvalidState_DifferentCatalogRef(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-time.Hour)),
	}

	command := addcopy.BuildCommand(copyID, libraryID, "cat-2", "staff-1", now)

	// act
	result := addcopy.Decide(events, command)

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionInvalidState, result.Rejection.Kind)
}

func Test_Decide_InvalidState_RegisteredWithAnotherLibrary(t *testing.T) {
	// arrange - copy ids are global, a second library cannot claim one
	copyID := uuid.New()
	owningLibraryID := uuid.New()
	otherLibraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, owningLibraryID, "cat-1", now.Add(-time.Hour)),
	}

	command := addcopy.BuildCommand(copyID, otherLibraryID, "cat-1", "staff-1", now)

	// act
	result := addcopy.Decide(events, command)

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionInvalidState, result.Rejection.Kind)
}

func Test_Decide_InvalidState_RetiredCopy(t *testing.T) {
	// arrange - retirement is terminal, the id never circulates again
	copyID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-2*time.Hour)),
		core.BuildCopyRetired(copyID, libraryID, now.Add(-time.Hour)),
	}

	command := addcopy.BuildCommand(copyID, libraryID, "cat-1", "staff-1", now)

	// act
	result := addcopy.Decide(events, command)

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionInvalidState, result.Rejection.Kind)
}
