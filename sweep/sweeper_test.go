package sweep_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/shell"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
	"github.com/shelfwise/circulate/sweep"
	"github.com/shelfwise/circulate/testutil/memstore"
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

func appendEvents(t *testing.T, store *memstore.Store, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()
	filter := ledgerstore.BuildEventFilter().MatchingAnyEvent()

	for _, event := range events {
		_, maxSeq, err := store.Query(ctx, filter)
		require.NoError(t, err)

		metadataID := uuid.New()
		storableEvent, err := shell.StorableEventFrom(event, shell.BuildEventMetadata(metadataID, metadataID, metadataID, "staff-1"))
		require.NoError(t, err)

		require.NoError(t, store.Append(ctx, filter, maxSeq, storableEvent))
	}
}

func Test_RunOnce_ReportsAccruedFees(t *testing.T) {
	// arrange - a loan four days overdue with one grace day at 25 cents per day
	store := memstore.NewStore()
	libraryID := uuid.New()
	copyID := uuid.New()
	memberID := uuid.New()
	observedAt := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	dueDate := observedAt.Add(-4 * 24 * time.Hour)

	appendEvents(t, store,
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", dueDate.Add(-14*24*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, memberID, uuid.New(), dueDate, dueDate.Add(-14*24*time.Hour)),
	)

	policies, err := policy.NewStaticStore(map[string]policy.Policy{
		libraryID.String(): testPolicy(),
	})
	require.NoError(t, err)

	var sunk []sweep.Report
	sweeper := sweep.NewSweeper(store, policies, []string{libraryID.String()},
		sweep.WithClock(func() time.Time { return observedAt }),
		sweep.WithReportSink(func(r sweep.Report) { sunk = append(sunk, r) }),
	)

	// act
	reports, err := sweeper.RunOnce(context.Background())

	// assert - 4 late days, 1 grace day, 3 * 25 cents
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, 1, reports[0].Count)

	loan := reports[0].Loans[0]
	assert.Equal(t, copyID.String(), loan.CopyID)
	assert.Equal(t, 4, loan.LateDays)
	assert.Equal(t, int64(75), loan.AccruedFeeCents)

	require.Len(t, sunk, 1)
	assert.Equal(t, reports[0], sunk[0])
}

func Test_RunOnce_DoesNotWriteToTheLedger(t *testing.T) {
	// arrange
	store := memstore.NewStore()
	libraryID := uuid.New()
	copyID := uuid.New()
	observedAt := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	appendEvents(t, store,
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", observedAt.Add(-30*24*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, uuid.New(), uuid.New(), observedAt.Add(-5*24*time.Hour), observedAt.Add(-19*24*time.Hour)),
	)

	policies, err := policy.NewStaticStore(map[string]policy.Policy{
		libraryID.String(): testPolicy(),
	})
	require.NoError(t, err)

	sweeper := sweep.NewSweeper(store, policies, []string{libraryID.String()},
		sweep.WithClock(func() time.Time { return observedAt }),
	)

	before := len(store.AllEvents())

	// act
	_, err = sweeper.RunOnce(context.Background())

	// assert
	require.NoError(t, err)
	assert.Len(t, store.AllEvents(), before)
}

func Test_RunOnce_NoOverdueLoans(t *testing.T) {
	// arrange - loan due next week
	store := memstore.NewStore()
	libraryID := uuid.New()
	copyID := uuid.New()
	observedAt := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	appendEvents(t, store,
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", observedAt.Add(-48*time.Hour)),
		core.BuildCopyCheckedOut(copyID, libraryID, uuid.New(), uuid.New(), observedAt.Add(7*24*time.Hour), observedAt.Add(-24*time.Hour)),
	)

	policies, err := policy.NewStaticStore(map[string]policy.Policy{
		libraryID.String(): testPolicy(),
	})
	require.NoError(t, err)

	sweeper := sweep.NewSweeper(store, policies, []string{libraryID.String()},
		sweep.WithClock(func() time.Time { return observedAt }),
	)

	// act
	reports, err := sweeper.RunOnce(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 0, reports[0].Count)
}

func Test_RunOnce_UnknownLibraryIsSkippedNotFatal(t *testing.T) {
	// arrange - one known library, one the policy store has never heard of
	store := memstore.NewStore()
	knownLibraryID := uuid.New()
	observedAt := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	policies, err := policy.NewStaticStore(map[string]policy.Policy{
		knownLibraryID.String(): testPolicy(),
	})
	require.NoError(t, err)

	sweeper := sweep.NewSweeper(store, policies,
		[]string{knownLibraryID.String(), uuid.New().String()},
		sweep.WithClock(func() time.Time { return observedAt }),
	)

	// act
	reports, err := sweeper.RunOnce(context.Background())

	// assert - the known library still gets its report
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}
