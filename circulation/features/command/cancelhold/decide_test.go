package cancelhold_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/features/command/cancelhold"
	"github.com/shelfwise/circulate/policy"
)

func testPolicy() policy.Policy {
	return policy.Policy{
		LoanPeriodDays:    14,
		MaxRenewals:       2,
		MaxOpenLoans:      10,
		MaxHoldsPerMember: 5,
		HoldPickupDays:    3,
		GraceDays:         1,
		FinePerDayCents:   25,
	}
}

func Test_Decide_Success_CancelQueuedHold(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	holderID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-72*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, holderID, uuid.New(), now.Add(14*24*time.Hour), now.Add(-48*time.Hour)),
		core.BuildHoldPlaced(copyID, libraryID, memberID, now.Add(-24*time.Hour)),
	}

	command := cancelhold.BuildCommand(copyID, libraryID, memberID, now)

	// act
	result := cancelhold.Decide(events, command, testPolicy())

	// assert
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 1)

	released, ok := result.Events[0].(core.HoldReleased)
	require.True(t, ok)
	assert.Equal(t, memberID.String(), released.MemberID)
	assert.Equal(t, core.HoldReleaseReasonCancelled, released.Reason)
}

func Test_Decide_Idempotent_NoHoldPresent(t *testing.T) {
	// arrange - member never placed a hold on this copy
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-72*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, uuid.New(), uuid.New(), now.Add(14*24*time.Hour), now.Add(-48*time.Hour)),
	}

	command := cancelhold.BuildCommand(copyID, libraryID, memberID, now)

	// act - twice, the outcome must not change
	first := cancelhold.Decide(events, command, testPolicy())
	second := cancelhold.Decide(events, command, testPolicy())

	// assert
	assert.True(t, first.IsIdempotent())
	assert.False(t, first.HasEventsToAppend())
	assert.Equal(t, first, second)
}

func Test_Decide_Idempotent_AfterCancellationCommitted(t *testing.T) {
	// arrange - the hold was already cancelled, a replayed command is a no-op
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-72*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, uuid.New(), uuid.New(), now.Add(14*24*time.Hour), now.Add(-48*time.Hour)),
		core.BuildHoldPlaced(copyID, libraryID, memberID, now.Add(-24*time.Hour)),
		core.BuildHoldReleased(copyID, libraryID, memberID.String(), core.HoldReleaseReasonCancelled, now.Add(-1*time.Hour)),
	}

	command := cancelhold.BuildCommand(copyID, libraryID, memberID, now)

	// act
	result := cancelhold.Decide(events, command, testPolicy())

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Success_CancelReservation_PassesCopyToNextInLine(t *testing.T) {
	// arrange - first member holds a reservation, second member waits in the queue
	copyID := uuid.New()
	libraryID := uuid.New()
	holderID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-120*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, holderID, uuid.New(), now.Add(-24*time.Hour), now.Add(-96*time.Hour)),
		core.BuildHoldPlaced(copyID, libraryID, firstID, now.Add(-72*time.Hour)),
		core.BuildHoldPlaced(copyID, libraryID, secondID, now.Add(-48*time.Hour)),
		core.BuildCopyReturned(copyID, libraryID, holderID.String(), uuid.New().String(), "good", now.Add(-12*time.Hour)),
		core.BuildHoldFulfilled(copyID, libraryID, firstID.String(), now.Add(60*time.Hour), now.Add(-12*time.Hour)),
	}

	command := cancelhold.BuildCommand(copyID, libraryID, firstID, now)

	// act
	result := cancelhold.Decide(events, command, testPolicy())

	// assert - release and re-reserve commit together
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 2)

	released, ok := result.Events[0].(core.HoldReleased)
	require.True(t, ok)
	assert.Equal(t, firstID.String(), released.MemberID)
	assert.Equal(t, core.HoldReleaseReasonCancelled, released.Reason)

	fulfilled, ok := result.Events[1].(core.HoldFulfilled)
	require.True(t, ok)
	assert.Equal(t, secondID.String(), fulfilled.MemberID)
	assert.Equal(t, core.ToOccurredAt(now.Add(3*24*time.Hour)), fulfilled.PickupDeadline)
}

func Test_Decide_Success_CancelReservation_EmptyQueue(t *testing.T) {
	// arrange - reservation with nobody else waiting
	copyID := uuid.New()
	libraryID := uuid.New()
	holderID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-120*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, holderID, uuid.New(), now.Add(-24*time.Hour), now.Add(-96*time.Hour)),
		core.BuildHoldPlaced(copyID, libraryID, memberID, now.Add(-72*time.Hour)),
		core.BuildCopyReturned(copyID, libraryID, holderID.String(), uuid.New().String(), "good", now.Add(-12*time.Hour)),
		core.BuildHoldFulfilled(copyID, libraryID, memberID.String(), now.Add(60*time.Hour), now.Add(-12*time.Hour)),
	}

	command := cancelhold.BuildCommand(copyID, libraryID, memberID, now)

	// act
	result := cancelhold.Decide(events, command, testPolicy())

	// assert - only the release, the copy goes back to available
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 1)

	released, ok := result.Events[0].(core.HoldReleased)
	require.True(t, ok)
	assert.Equal(t, core.HoldReleaseReasonCancelled, released.Reason)
}

func Test_Decide_NotFound_UnknownCopy(t *testing.T) {
	// arrange
	command := cancelhold.BuildCommand(uuid.New(), uuid.New(), uuid.New(), time.Now())

	// act
	result := cancelhold.Decide(core.DomainEvents{}, command, testPolicy())

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionNotFound, result.Rejection.Kind)
}
