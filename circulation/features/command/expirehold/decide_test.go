package expirehold_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/features/command/expirehold"
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

func reservedCopyHistory(copyID, libraryID, reservedFor uuid.UUID, deadline, now time.Time) core.DomainEvents {
	holderID := uuid.New()

	return core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-240*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, holderID, uuid.New(), now.Add(-120*time.Hour), now.Add(-200*time.Hour)),
		core.BuildHoldPlaced(copyID, libraryID, reservedFor, now.Add(-180*time.Hour)),
		core.BuildCopyReturned(copyID, libraryID, holderID.String(), uuid.New().String(), "good", now.Add(-100*time.Hour)),
		core.BuildHoldFulfilled(copyID, libraryID, reservedFor.String(), deadline, now.Add(-100*time.Hour)),
	}
}

func Test_Decide_Success_ExpiredReservation_EmptyQueue(t *testing.T) {
	// arrange - the pickup deadline passed a day ago
	copyID := uuid.New()
	libraryID := uuid.New()
	reservedFor := uuid.New()
	now := time.Now()

	events := reservedCopyHistory(copyID, libraryID, reservedFor, now.Add(-24*time.Hour), now)

	command := expirehold.BuildCommand(copyID, libraryID, now)

	// act
	result := expirehold.Decide(events, command, testPolicy())

	// assert
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 1)

	released, ok := result.Events[0].(core.HoldReleased)
	require.True(t, ok)
	assert.Equal(t, reservedFor.String(), released.MemberID)
	assert.Equal(t, core.HoldReleaseReasonExpired, released.Reason)
}

func Test_Decide_Success_ExpiredReservation_ReReservesNextInLine(t *testing.T) {
	// arrange - a second member joined the queue after the reservation was made
	copyID := uuid.New()
	libraryID := uuid.New()
	reservedFor := uuid.New()
	waitingID := uuid.New()
	now := time.Now()

	events := reservedCopyHistory(copyID, libraryID, reservedFor, now.Add(-24*time.Hour), now)
	events = append(events, core.BuildHoldPlaced(copyID, libraryID, waitingID, now.Add(-48*time.Hour)))

	command := expirehold.BuildCommand(copyID, libraryID, now)

	// act
	result := expirehold.Decide(events, command, testPolicy())

	// assert - release and re-reserve commit together
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 2)

	released, ok := result.Events[0].(core.HoldReleased)
	require.True(t, ok)
	assert.Equal(t, core.HoldReleaseReasonExpired, released.Reason)

	fulfilled, ok := result.Events[1].(core.HoldFulfilled)
	require.True(t, ok)
	assert.Equal(t, waitingID.String(), fulfilled.MemberID)
	assert.Equal(t, core.ToOccurredAt(now.Add(3*24*time.Hour)), fulfilled.PickupDeadline)
}

func Test_Decide_InvalidState_PickupWindowStillOpen(t *testing.T) {
	// arrange - deadline is two days out
	copyID := uuid.New()
	libraryID := uuid.New()
	reservedFor := uuid.New()
	now := time.Now()

	events := reservedCopyHistory(copyID, libraryID, reservedFor, now.Add(48*time.Hour), now)

	command := expirehold.BuildCommand(copyID, libraryID, now)

	// act
	result := expirehold.Decide(events, command, testPolicy())

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionInvalidState, result.Rejection.Kind)
}

func Test_Decide_Idempotent_NoReservation(t *testing.T) {
	// arrange - available copy, nothing to expire
	copyID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now.Add(-72*time.Hour)),
	}

	command := expirehold.BuildCommand(copyID, libraryID, now)

	// act
	result := expirehold.Decide(events, command, testPolicy())

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_NotFound_UnknownCopy(t *testing.T) {
	// arrange
	command := expirehold.BuildCommand(uuid.New(), uuid.New(), time.Now())

	// act
	result := expirehold.Decide(core.DomainEvents{}, command, testPolicy())

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionNotFound, result.Rejection.Kind)
}
