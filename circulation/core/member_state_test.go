package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shelfwise/circulate/circulation/core"
)

func Test_ProjectMember_UnregisteredMember(t *testing.T) {
	// arrange
	memberID := uuid.New()

	// act
	snapshot := core.ProjectMember(nil, memberID.String())

	// assert
	assert.False(t, snapshot.Exists)
	assert.Empty(t, snapshot.Standing)
}

func Test_ProjectMember_RegisteredMemberIsActive(t *testing.T) {
	// arrange
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-time.Hour)),
	}

	// act
	snapshot := core.ProjectMember(events, memberID.String())

	// assert
	assert.True(t, snapshot.Exists)
	assert.Equal(t, core.StandingActive, snapshot.Standing)
	assert.Equal(t, int64(0), snapshot.OutstandingFeeCents)
	assert.Equal(t, 0, snapshot.OpenLoanCount())
}

func Test_ProjectMember_StandingFollowsLatestChange(t *testing.T) {
	// arrange
	libraryID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-3*time.Hour)),
		core.BuildMemberStandingChanged(libraryID, memberID, core.StandingBanned, now.Add(-2*time.Hour)),
		core.BuildMemberStandingChanged(libraryID, memberID, core.StandingActive, now.Add(-time.Hour)),
	}

	// act
	snapshot := core.ProjectMember(events, memberID.String())

	// assert
	assert.Equal(t, core.StandingActive, snapshot.Standing)
}

func Test_ProjectMember_FeesAccumulateAndPaymentsReduce(t *testing.T) {
	// arrange
	libraryID := uuid.New()
	memberID := uuid.New()
	copyID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-5*time.Hour)),
		core.BuildFeeAssessed(copyID, libraryID, memberID.String(), uuid.NewString(), 300, now.Add(-4*time.Hour)),
		core.BuildFeeAssessed(copyID, libraryID, memberID.String(), uuid.NewString(), 200, now.Add(-3*time.Hour)),
		core.BuildFeePaymentRecorded(libraryID, memberID, 400, now.Add(-2*time.Hour)),
	}

	// act
	snapshot := core.ProjectMember(events, memberID.String())

	// assert
	assert.Equal(t, int64(100), snapshot.OutstandingFeeCents)
}

func Test_ProjectMember_OverpaymentFloorsAtZero(t *testing.T) {
	// arrange
	libraryID := uuid.New()
	memberID := uuid.New()
	copyID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-3*time.Hour)),
		core.BuildFeeAssessed(copyID, libraryID, memberID.String(), uuid.NewString(), 150, now.Add(-2*time.Hour)),
		core.BuildFeePaymentRecorded(libraryID, memberID, 500, now.Add(-time.Hour)),
	}

	// act
	snapshot := core.ProjectMember(events, memberID.String())

	// assert
	assert.Equal(t, int64(0), snapshot.OutstandingFeeCents)
}

func Test_ProjectMember_LoanAndHoldCounts(t *testing.T) {
	// arrange
	libraryID := uuid.New()
	memberID := uuid.New()
	loanedCopyID := uuid.New()
	returnedCopyID := uuid.New()
	heldCopyID := uuid.New()
	loanTxID := uuid.New()
	returnedTxID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-6*time.Hour)),
		core.BuildCopyCheckedOut(loanedCopyID, libraryID, memberID, loanTxID, now.Add(24*time.Hour), now.Add(-5*time.Hour)),
		core.BuildCopyCheckedOut(returnedCopyID, libraryID, memberID, returnedTxID, now.Add(24*time.Hour), now.Add(-4*time.Hour)),
		core.BuildCopyReturned(returnedCopyID, libraryID, memberID.String(), returnedTxID.String(), "good", now.Add(-3*time.Hour)),
		core.BuildHoldPlaced(heldCopyID, libraryID, memberID, now.Add(-2*time.Hour)),
	}

	// act
	snapshot := core.ProjectMember(events, memberID.String())

	// assert
	assert.Equal(t, 1, snapshot.OpenLoanCount())
	assert.Equal(t, 1, snapshot.OpenHoldCount())
	assert.True(t, snapshot.HasOpenHoldOn(heldCopyID.String()))
}

func Test_ProjectMember_PickupConsumesHold(t *testing.T) {
	// arrange
	libraryID := uuid.New()
	memberID := uuid.New()
	copyID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-4*time.Hour)),
		core.BuildHoldPlaced(copyID, libraryID, memberID, now.Add(-3*time.Hour)),
		core.BuildHoldFulfilled(copyID, libraryID, memberID.String(), now.Add(3*24*time.Hour), now.Add(-2*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, memberID, uuid.New(), now.Add(24*time.Hour), now.Add(-time.Hour)),
	}

	// act
	snapshot := core.ProjectMember(events, memberID.String())

	// assert
	assert.Equal(t, 1, snapshot.OpenLoanCount())
	assert.Equal(t, 0, snapshot.OpenHoldCount())
}

func Test_ProjectMember_IgnoresOtherMembers(t *testing.T) {
	// arrange
	libraryID := uuid.New()
	memberID := uuid.New()
	otherMemberID := uuid.New()
	copyID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-3*time.Hour)),
		core.BuildMemberRegistered(libraryID, otherMemberID, now.Add(-3*time.Hour)),
		core.BuildFeeAssessed(copyID, libraryID, otherMemberID.String(), uuid.NewString(), 900, now.Add(-2*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, otherMemberID, uuid.New(), now.Add(24*time.Hour), now.Add(-time.Hour)),
	}

	// act
	snapshot := core.ProjectMember(events, memberID.String())

	// assert
	assert.Equal(t, int64(0), snapshot.OutstandingFeeCents)
	assert.Equal(t, 0, snapshot.OpenLoanCount())
}
