package checkoutcopy_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/features/command/checkoutcopy"
	"github.com/shelfwise/circulate/circulation/features/command/retirecopy"
	"github.com/shelfwise/circulate/circulation/shell"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
	"github.com/shelfwise/circulate/testutil/memstore"
)

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

func staticPolicies(t *testing.T, libraryID uuid.UUID) policy.Store {
	t.Helper()

	policies, err := policy.NewStaticStore(map[string]policy.Policy{
		libraryID.String(): {
			LoanPeriodDays:    14,
			MaxRenewals:       2,
			MaxOpenLoans:      10,
			MaxHoldsPerMember: 5,
			HoldPickupDays:    3,
			GraceDays:         1,
			FinePerDayCents:   25,
		},
	})
	require.NoError(t, err)

	return policies
}

func Test_Handle_CommitsCheckoutAndReportsDueDate(t *testing.T) {
	// given
	store := memstore.NewStore()
	libraryID := uuid.New()
	copyID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	appendEvents(t, store,
		core.BuildMemberRegistered(libraryID, memberID, now),
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now),
	)

	handler := checkoutcopy.NewCommandHandler(store, staticPolicies(t, libraryID))

	// when
	result, err := handler.Handle(context.Background(), checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now))

	// then
	require.NoError(t, err)
	assert.Equal(t, shell.OutcomeCommitted, result.Outcome)
	assert.NotEmpty(t, result.TransactionID)
	assert.WithinDuration(t, now.Add(14*24*time.Hour), result.DueDate, time.Second)

	events := store.AllEvents()
	require.Len(t, events, 3)
	assert.Equal(t, core.CopyCheckedOutEventType, events[2].EventType)
}

func Test_Handle_SecondCallIsIdempotentAndAppendsNothing(t *testing.T) {
	// given
	store := memstore.NewStore()
	libraryID := uuid.New()
	copyID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	appendEvents(t, store,
		core.BuildMemberRegistered(libraryID, memberID, now),
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now),
	)

	handler := checkoutcopy.NewCommandHandler(store, staticPolicies(t, libraryID))

	first, err := handler.Handle(context.Background(), checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now))
	require.NoError(t, err)
	require.Equal(t, shell.OutcomeCommitted, first.Outcome)

	// when
	second, err := handler.Handle(context.Background(), checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now))

	// then
	require.NoError(t, err)
	assert.Equal(t, shell.OutcomeCommitted, second.Outcome)
	assert.True(t, second.Idempotent)
	assert.Len(t, store.AllEvents(), 3)
}

func Test_Handle_UnknownLibraryFailsBeforeTouchingTheLog(t *testing.T) {
	// given
	store := memstore.NewStore()
	handler := checkoutcopy.NewCommandHandler(store, staticPolicies(t, uuid.New()))

	// when
	_, err := handler.Handle(context.Background(), checkoutcopy.BuildCommand(uuid.New(), uuid.New(), uuid.New(), "staff-1", time.Now()))

	// then
	require.ErrorIs(t, err, policy.ErrUnknownLibrary)
	assert.Empty(t, store.AllEvents())
}

func Test_Handle_AnotherLibrarysCopyIsNotFound(t *testing.T) {
	// given - copy and member live in one library, the command names another
	store := memstore.NewStore()
	owningLibrary := uuid.New()
	commandLibrary := uuid.New()
	copyID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	appendEvents(t, store,
		core.BuildMemberRegistered(owningLibrary, memberID, now),
		core.BuildCopyAddedToInventory(copyID, owningLibrary, "cat-1", now),
	)

	policies, err := policy.NewStaticStore(map[string]policy.Policy{
		owningLibrary.String():  {LoanPeriodDays: 14, MaxOpenLoans: 10, MaxHoldsPerMember: 5, HoldPickupDays: 3},
		commandLibrary.String(): {LoanPeriodDays: 14, MaxOpenLoans: 10, MaxHoldsPerMember: 5, HoldPickupDays: 3},
	})
	require.NoError(t, err)

	handler := checkoutcopy.NewCommandHandler(store, policies)

	// when
	result, err := handler.Handle(context.Background(), checkoutcopy.BuildCommand(copyID, commandLibrary, memberID, "staff-1", now))

	// then - the other library's inventory is out of reach
	require.NoError(t, err)
	assert.Equal(t, shell.OutcomeNotFound, result.Outcome)

	for _, event := range store.AllEvents() {
		assert.NotEqual(t, core.CopyCheckedOutEventType, event.EventType)
	}
}

func Test_Handle_RetiringACheckedOutCopyFreesTheLoanSlot(t *testing.T) {
	// given - a member at their one-loan limit
	store := memstore.NewStore()
	libraryID := uuid.New()
	firstCopy := uuid.New()
	secondCopy := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	appendEvents(t, store,
		core.BuildMemberRegistered(libraryID, memberID, now),
		core.BuildCopyAddedToInventory(firstCopy, libraryID, "cat-1", now),
		core.BuildCopyAddedToInventory(secondCopy, libraryID, "cat-2", now),
	)

	policies, err := policy.NewStaticStore(map[string]policy.Policy{
		libraryID.String(): {LoanPeriodDays: 14, MaxOpenLoans: 1, MaxHoldsPerMember: 5, HoldPickupDays: 3},
	})
	require.NoError(t, err)

	checkout := checkoutcopy.NewCommandHandler(store, policies)
	retire := retirecopy.NewCommandHandler(store)

	first, err := checkout.Handle(context.Background(), checkoutcopy.BuildCommand(firstCopy, libraryID, memberID, "staff-1", now))
	require.NoError(t, err)
	require.Equal(t, shell.OutcomeCommitted, first.Outcome)

	// when - the loaned copy leaves circulation, then the member borrows again
	retired, err := retire.Handle(context.Background(), retirecopy.BuildCommand(firstCopy, libraryID, "staff-1", now.Add(time.Hour)))
	require.NoError(t, err)
	require.Equal(t, shell.OutcomeCommitted, retired.Outcome)

	second, err := checkout.Handle(context.Background(), checkoutcopy.BuildCommand(secondCopy, libraryID, memberID, "staff-1", now.Add(2*time.Hour)))

	// then - the retirement closed the open loan, the slot is free again
	require.NoError(t, err)
	assert.Equal(t, shell.OutcomeCommitted, second.Outcome)
}

func Test_Handle_RacingCheckouts_ExactlyOneWins(t *testing.T) {
	// given - one copy, two members racing for it
	store := memstore.NewStore()
	libraryID := uuid.New()
	copyID := uuid.New()
	firstMember := uuid.New()
	secondMember := uuid.New()
	now := time.Now()

	appendEvents(t, store,
		core.BuildMemberRegistered(libraryID, firstMember, now),
		core.BuildMemberRegistered(libraryID, secondMember, now),
		core.BuildCopyAddedToInventory(copyID, libraryID, "cat-1", now),
	)

	handler := checkoutcopy.NewCommandHandler(store, staticPolicies(t, libraryID))

	// when
	results := make([]shell.CommandResult, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i, memberID := range []uuid.UUID{firstMember, secondMember} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = handler.Handle(context.Background(), checkoutcopy.BuildCommand(copyID, libraryID, memberID, "staff-1", now))
		}()
	}
	wg.Wait()

	// then - one checkout commits, the loser sees the copy taken (after the
	// bounded retry re-reads fresh state) or exhausts its retries
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	var committed, denied int
	for _, result := range results {
		switch result.Outcome {
		case shell.OutcomeCommitted:
			committed++
		case shell.OutcomeUnavailable, shell.OutcomeConflict:
			denied++
		default:
			t.Fatalf("unexpected outcome %q", result.Outcome)
		}
	}

	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, denied)

	var checkouts int
	for _, event := range store.AllEvents() {
		if event.EventType == core.CopyCheckedOutEventType {
			checkouts++
		}
	}
	assert.Equal(t, 1, checkouts)
}
