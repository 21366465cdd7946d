package holdexpiry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/features/command/expirehold"
	"github.com/shelfwise/circulate/circulation/shell"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
)

// DefaultInterval is the expiry cadence used when none is configured.
const DefaultInterval = time.Minute

// Scheduler finds lapsed pickup reservations and expires them through the
// command path. Unlike the overdue sweep it writes to the ledger, but only
// via conditional appends, so it never clobbers a concurrent pickup.
type Scheduler struct {
	eventStore shell.QueriesEvents
	handler    expirehold.CommandHandler
	libraries  []string

	interval time.Duration
	now      func() time.Time
	logger   shell.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the expiry cadence.
func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithClock sets the time source, so tests can pin the observation instant.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithLogger sets the logger used for expiry summaries and failures.
func WithLogger(logger shell.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a Scheduler over the given libraries.
func NewScheduler(eventStore shell.EventStore, policies policy.Store, libraries []string, opts ...Option) *Scheduler {
	s := &Scheduler{
		eventStore: eventStore,
		handler:    expirehold.NewCommandHandler(eventStore, policies),
		libraries:  libraries,
		interval:   DefaultInterval,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run expires lapsed reservations on the configured interval until the
// context is canceled. A failing library is logged and skipped; it never
// halts the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && s.logger != nil {
				s.logger.Error("hold expiry run failed", "error", err)
			}
		}
	}
}

// RunOnce expires every lapsed reservation across all libraries immediately.
// It returns the number of reservations it expired.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	observedAt := s.now()
	expired := 0

	for _, libraryID := range s.libraries {
		count, err := s.expireLibrary(ctx, libraryID, observedAt)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("hold expiry failed for library", "library_id", libraryID, "error", err)
			}

			continue
		}

		if count > 0 && s.logger != nil {
			s.logger.Info("hold expiry completed",
				"library_id", libraryID, "expired_holds", count)
		}

		expired += count
	}

	return expired, nil
}

func (s *Scheduler) expireLibrary(ctx context.Context, libraryID string, observedAt time.Time) (int, error) {
	parsedLibraryID, err := uuid.Parse(libraryID)
	if err != nil {
		return 0, err
	}

	filter := ledgerstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyAddedToInventoryEventType,
			core.CopyRetiredEventType,
			core.CopyCheckedOutEventType,
			core.CopyReturnedEventType,
			core.LoanRenewedEventType,
			core.HoldPlacedEventType,
			core.HoldFulfilledEventType,
			core.HoldReleasedEventType,
		).
		AndAnyPredicateOf(
			ledgerstore.P("LibraryID", libraryID),
		).
		Finalize()

	storableEvents, _, err := s.eventStore.Query(ctx, filter)
	if err != nil {
		return 0, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return 0, err
	}

	snapshots := make(map[core.CopyIDString]*core.CopySnapshot)

	for _, event := range history {
		copyID := copyIDOf(event)
		if copyID == "" {
			continue
		}

		snapshot, ok := snapshots[copyID]
		if !ok {
			snapshot = &core.CopySnapshot{CopyID: copyID}
			snapshots[copyID] = snapshot
		}

		snapshot.Apply(event)
	}

	expired := 0

	for copyID, snapshot := range snapshots {
		if snapshot.State != core.StateReservedForHold || snapshot.Reservation == nil {
			continue
		}

		if !snapshot.Reservation.PickupDeadline.Before(observedAt) {
			continue
		}

		parsedCopyID, parseErr := uuid.Parse(string(copyID))
		if parseErr != nil {
			return expired, parseErr
		}

		result, handleErr := s.handler.Handle(ctx, expirehold.BuildCommand(parsedCopyID, parsedLibraryID, observedAt))
		if handleErr != nil {
			if s.logger != nil {
				s.logger.Error("hold expiry failed for copy",
					"library_id", libraryID, "copy_id", copyID, "error", handleErr)
			}

			continue
		}

		// A losing race against a desk pickup shows up as a non-committed
		// outcome; the reservation is gone either way.
		if result.Outcome == shell.OutcomeCommitted && !result.Idempotent {
			expired++
		}
	}

	return expired, nil
}

func copyIDOf(event core.DomainEvent) core.CopyIDString {
	switch e := event.(type) {
	case core.CopyAddedToInventory:
		return e.CopyID
	case core.CopyRetired:
		return e.CopyID
	case core.CopyCheckedOut:
		return e.CopyID
	case core.CopyReturned:
		return e.CopyID
	case core.LoanRenewed:
		return e.CopyID
	case core.HoldPlaced:
		return e.CopyID
	case core.HoldFulfilled:
		return e.CopyID
	case core.HoldReleased:
		return e.CopyID
	}

	return ""
}
