package recordfeepayment_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/features/command/recordfeepayment"
)

func memberWithFee(memberID, libraryID uuid.UUID, feeCents int64, now time.Time) core.DomainEvents {
	return core.DomainEvents{
		core.BuildMemberRegistered(libraryID, memberID, now.Add(-48*time.Hour)),
		core.BuildFeeAssessed(uuid.New(), libraryID, memberID.String(), uuid.New().String(), feeCents, now.Add(-24*time.Hour)),
	}
}

func Test_Decide_Success_PartialPayment(t *testing.T) {
	// arrange - 500 cents owed, 200 paid
	memberID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := memberWithFee(memberID, libraryID, 500, now)

	command := recordfeepayment.BuildCommand(memberID, libraryID, 200, "staff-1", now)

	// act
	result := recordfeepayment.Decide(events, command)

	// assert
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 1)

	payment, ok := result.Events[0].(core.FeePaymentRecorded)
	require.True(t, ok)
	assert.Equal(t, int64(200), payment.AmountCents)
}

func Test_Decide_Success_OverpaymentClampedToBalance(t *testing.T) {
	// arrange - 300 cents owed, 1000 tendered
	memberID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := memberWithFee(memberID, libraryID, 300, now)

	command := recordfeepayment.BuildCommand(memberID, libraryID, 1000, "staff-1", now)

	// act
	result := recordfeepayment.Decide(events, command)

	// assert - only the balance is booked
	require.True(t, result.HasEventsToAppend())

	payment, ok := result.Events[0].(core.FeePaymentRecorded)
	require.True(t, ok)
	assert.Equal(t, int64(300), payment.AmountCents)
}

func Test_Decide_Idempotent_ZeroBalance(t *testing.T) {
	// arrange - fee fully paid already
	memberID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := memberWithFee(memberID, libraryID, 500, now)
	events = append(events, core.BuildFeePaymentRecorded(libraryID, memberID, 500, now.Add(-time.Hour)))

	command := recordfeepayment.BuildCommand(memberID, libraryID, 500, "staff-1", now)

	// act
	result := recordfeepayment.Decide(events, command)

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_PolicyViolation_NonPositiveAmount(t *testing.T) {
	// arrange
	memberID := uuid.New()
	libraryID := uuid.New()
	now := time.Now()

	events := memberWithFee(memberID, libraryID, 500, now)

	// act
	zeroResult := recordfeepayment.Decide(events, recordfeepayment.BuildCommand(memberID, libraryID, 0, "staff-1", now))
	negativeResult := recordfeepayment.Decide(events, recordfeepayment.BuildCommand(memberID, libraryID, -100, "staff-1", now))

	// assert
	require.True(t, zeroResult.IsRejected())
	assert.Equal(t, core.RejectionPolicyViolation, zeroResult.Rejection.Kind)
	require.True(t, negativeResult.IsRejected())
	assert.Equal(t, core.RejectionPolicyViolation, negativeResult.Rejection.Kind)
}

func Test_Decide_NotFound_UnknownMember(t *testing.T) {
	// arrange
	command := recordfeepayment.BuildCommand(uuid.New(), uuid.New(), 100, "staff-1", time.Now())

	// act
	result := recordfeepayment.Decide(core.DomainEvents{}, command)

	// assert
	require.True(t, result.IsRejected())
	assert.Equal(t, core.RejectionNotFound, result.Rejection.Kind)
}
