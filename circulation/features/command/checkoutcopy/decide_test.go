package checkoutcopy_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/features/command/checkoutcopy"
	"github.com/shelfwise/circulate/policy"
)

func testPolicy() policy.Policy {
	return policy.Policy{
		LoanPeriodDays:         14,
		MaxRenewals:            2,
		MaxOpenLoans:           3,
		MaxHoldsPerMember:      5,
		HoldPickupDays:         3,
		GraceDays:              1,
		FinePerDayCents:        25,
		FeeBlockThresholdCents: 500,
	}
}

func Test_Decide_Success_WhenCopyAvailableAndMemberActive(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-3*time.Hour)),
		givenMemberRegistered(t, libraryID, memberID, now.Add(-2*time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 1)

	checkedOut, ok := result.Events[0].(core.CopyCheckedOut)
	require.True(t, ok)
	assert.Equal(t, copyID.String(), checkedOut.CopyID)
	assert.Equal(t, memberID.String(), checkedOut.MemberID)
	assert.Equal(t, command.TransactionID.String(), checkedOut.TransactionID)
	assert.Equal(t, core.ToOccurredAt(now.Add(14*24*time.Hour)), checkedOut.DueDate)
}

func Test_Decide_Idempotent_WhenAlreadyCheckedOutToSameMember(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-3*time.Hour)),
		givenMemberRegistered(t, libraryID, memberID, now.Add(-2*time.Hour)),
		givenCheckedOut(t, copyID, libraryID, memberID, now.Add(-time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assert.True(t, result.IsIdempotent())
}

func Test_Decide_NotFound_WhenCopyUnknown(t *testing.T) {
	// arrange
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenMemberRegistered(t, libraryID, memberID, now.Add(-time.Hour)),
	}

	command := checkoutcopy.BuildCommand(uuid.New(), libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assertRejected(t, result, core.RejectionNotFound)
}

func Test_Decide_NotFound_WhenMemberUnknown(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, uuid.New(), "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assertRejected(t, result, core.RejectionNotFound)
}

func Test_Decide_NotFound_WhenCopyBelongsToAnotherLibrary(t *testing.T) {
	// arrange - the copy and member exist, but under a different library
	copyID := uuid.New()
	owningLibraryID := uuid.New()
	otherLibraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, owningLibraryID, now.Add(-3*time.Hour)),
		givenMemberRegistered(t, otherLibraryID, memberID, now.Add(-2*time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, otherLibraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assertRejected(t, result, core.RejectionNotFound)
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_NotFound_WhenMemberBelongsToAnotherLibrary(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	otherLibraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-3*time.Hour)),
		givenMemberRegistered(t, otherLibraryID, memberID, now.Add(-2*time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assertRejected(t, result, core.RejectionNotFound)
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Unavailable_WhenCheckedOutToAnotherMember(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	otherMemberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-3*time.Hour)),
		givenMemberRegistered(t, libraryID, memberID, now.Add(-2*time.Hour)),
		givenCheckedOut(t, copyID, libraryID, otherMemberID, now.Add(-time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assertRejected(t, result, core.RejectionUnavailable)
}

func Test_Decide_Unavailable_WhenRetired(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-3*time.Hour)),
		givenMemberRegistered(t, libraryID, memberID, now.Add(-2*time.Hour)),
		core.BuildCopyRetired(copyID, libraryID, now.Add(-time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assertRejected(t, result, core.RejectionUnavailable)
}

func Test_Decide_Unavailable_WhenReservedForAnotherMember(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	holderID := uuid.New()
	waiterID := uuid.New()
	memberID := uuid.New()
	transactionID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-5*time.Hour)),
		givenMemberRegistered(t, libraryID, memberID, now.Add(-5*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, holderID, transactionID, now.Add(24*time.Hour), now.Add(-4*time.Hour)),
		core.BuildHoldPlaced(copyID, libraryID, waiterID, now.Add(-3*time.Hour)),
		core.BuildCopyReturned(copyID, libraryID, holderID.String(), transactionID.String(), "good", now.Add(-time.Hour)),
		core.BuildHoldFulfilled(copyID, libraryID, waiterID.String(), now.Add(3*24*time.Hour), now.Add(-time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assertRejected(t, result, core.RejectionUnavailable)
}

func Test_Decide_Success_WhenReservedForThisMember(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	holderID := uuid.New()
	memberID := uuid.New()
	transactionID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-5*time.Hour)),
		givenMemberRegistered(t, libraryID, memberID, now.Add(-5*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, holderID, transactionID, now.Add(24*time.Hour), now.Add(-4*time.Hour)),
		core.BuildHoldPlaced(copyID, libraryID, memberID, now.Add(-3*time.Hour)),
		core.BuildCopyReturned(copyID, libraryID, holderID.String(), transactionID.String(), "good", now.Add(-time.Hour)),
		core.BuildHoldFulfilled(copyID, libraryID, memberID.String(), now.Add(3*24*time.Hour), now.Add(-time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assert.True(t, result.HasEventsToAppend())
}

func Test_Decide_PolicyViolation_WhenMemberBanned(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-3*time.Hour)),
		givenMemberRegistered(t, libraryID, memberID, now.Add(-2*time.Hour)),
		core.BuildMemberStandingChanged(libraryID, memberID, core.StandingBanned, now.Add(-time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assertRejected(t, result, core.RejectionPolicyViolation)
}

func Test_Decide_PolicyViolation_WhenFeesOverThreshold(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-3*time.Hour)),
		givenMemberRegistered(t, libraryID, memberID, now.Add(-2*time.Hour)),
		core.BuildFeeAssessed(uuid.New(), libraryID, memberID.String(), uuid.NewString(), 600, now.Add(-time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assertRejected(t, result, core.RejectionPolicyViolation)
}

func Test_Decide_Success_WhenFeesUnderThresholdAfterPayment(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-4*time.Hour)),
		givenMemberRegistered(t, libraryID, memberID, now.Add(-3*time.Hour)),
		core.BuildFeeAssessed(uuid.New(), libraryID, memberID.String(), uuid.NewString(), 600, now.Add(-2*time.Hour)),
		core.BuildFeePaymentRecorded(libraryID, memberID, 400, now.Add(-time.Hour)),
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assert.True(t, result.HasEventsToAppend())
}

func Test_Decide_PolicyViolation_WhenOpenLoanLimitReached(t *testing.T) {
	// arrange
	copyID := uuid.New()
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenCopyAdded(t, copyID, libraryID, now.Add(-6*time.Hour)),
		givenMemberRegistered(t, libraryID, memberID, now.Add(-5*time.Hour)),
	}

	for i := 0; i < 3; i++ {
		otherCopyID := uuid.New()
		events = append(events,
			givenCopyAdded(t, otherCopyID, libraryID, now.Add(-4*time.Hour)),
			givenCheckedOut(t, otherCopyID, libraryID, memberID, now.Add(-3*time.Hour+time.Duration(i)*time.Minute)),
		)
	}

	command := checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now)

	// act
	result := checkoutcopy.Decide(events, command, testPolicy())

	// assert
	assertRejected(t, result, core.RejectionPolicyViolation)
}

// Test helper functions with t.Helper() for better error reporting

func givenCopyAdded(t *testing.T, copyID, libraryID uuid.UUID, at time.Time) core.DomainEvent {
	t.Helper()
	return core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", at)
}

func givenMemberRegistered(t *testing.T, libraryID, memberID uuid.UUID, at time.Time) core.DomainEvent {
	t.Helper()
	return core.BuildMemberRegistered(libraryID, memberID, at)
}

func givenCheckedOut(t *testing.T, copyID, libraryID, memberID uuid.UUID, at time.Time) core.DomainEvent {
	t.Helper()
	return core.BuildCopyCheckedOut(copyID, libraryID, memberID, uuid.New(), at.Add(14*24*time.Hour), at)
}

func assertRejected(t *testing.T, result core.DecisionResult, kind core.RejectionKind) {
	t.Helper()
	require.True(t, result.IsRejected())
	require.NotNil(t, result.Rejection)
	assert.Equal(t, kind, result.Rejection.Kind)
	assert.NotEmpty(t, result.Rejection.Reason)
}
