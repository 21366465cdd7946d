package publisher

import (
	"context"
	"time"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/shell"
	"github.com/shelfwise/circulate/ledgerstore"
)

// DefaultPollInterval is how often the tailer polls the transaction log when
// no interval is configured.
const DefaultPollInterval = 500 * time.Millisecond

// copyEventTypes are the event types that mutate a copy's ledger entry. Member
// and fee events never change availability and are not tailed.
func copyEventTypes() []ledgerstore.FilterEventTypeString {
	return []ledgerstore.FilterEventTypeString{
		core.CopyAddedToInventoryEventType,
		core.CopyRetiredEventType,
		core.CopyCheckedOutEventType,
		core.CopyReturnedEventType,
		core.LoanRenewedEventType,
		core.HoldPlacedEventType,
		core.HoldFulfilledEventType,
		core.HoldReleasedEventType,
	}
}

// Tailer follows the transaction log and publishes one availability record
// per committed copy event. It keeps a per-copy snapshot folded from the
// events it has seen, so each record carries the copy's state right after
// the mutation.
type Tailer struct {
	eventStore   shell.QueriesEvents
	hub          *Hub
	logger       shell.Logger
	pollInterval time.Duration

	lastSequence ledgerstore.SequenceNumberUint
	snapshots    map[core.CopyIDString]*core.CopySnapshot
}

// TailerOption configures a Tailer.
type TailerOption func(*Tailer)

// WithPollInterval sets how often the tailer polls the log.
func WithPollInterval(interval time.Duration) TailerOption {
	return func(t *Tailer) {
		if interval > 0 {
			t.pollInterval = interval
		}
	}
}

// WithLogger sets the logger used for poll failures.
func WithLogger(logger shell.Logger) TailerOption {
	return func(t *Tailer) {
		t.logger = logger
	}
}

// NewTailer creates a Tailer that publishes to the given hub, starting at the
// beginning of the log.
func NewTailer(eventStore shell.QueriesEvents, hub *Hub, opts ...TailerOption) *Tailer {
	t := &Tailer{
		eventStore:   eventStore,
		hub:          hub,
		pollInterval: DefaultPollInterval,
		snapshots:    make(map[core.CopyIDString]*core.CopySnapshot),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Run polls the log until the context is canceled. Poll errors are logged and
// retried on the next tick; the committed log is durable, so nothing is lost.
func (t *Tailer) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if _, err := t.Poll(ctx); err != nil {
				if t.logger != nil {
					t.logger.Error("availability feed poll failed", "error", err)
				}
			}
		}
	}
}

// Poll reads and publishes all copy events committed since the last poll.
// It returns the number of records published.
func (t *Tailer) Poll(ctx context.Context) (int, error) {
	types := copyEventTypes()

	filter := ledgerstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(types[0], types[1:]...).
		WithSequenceNumberHigherThan(t.lastSequence).
		Finalize()

	storableEvents, _, err := t.eventStore.Query(ctx, filter)
	if err != nil {
		return 0, err
	}

	published := 0

	for _, storableEvent := range storableEvents {
		record, buildErr := t.applyStorableEvent(storableEvent)
		if buildErr != nil {
			return published, buildErr
		}

		t.hub.Publish(record)
		t.lastSequence = storableEvent.SequenceNumber
		published++
	}

	return published, nil
}

func (t *Tailer) applyStorableEvent(storableEvent ledgerstore.StorableEvent) (AvailabilityRecord, error) {
	event, err := shell.DomainEventFrom(storableEvent)
	if err != nil {
		return AvailabilityRecord{}, err
	}

	copyID := copyIDOf(event)

	snapshot, ok := t.snapshots[copyID]
	if !ok {
		snapshot = &core.CopySnapshot{CopyID: copyID}
		t.snapshots[copyID] = snapshot
	}

	snapshot.Apply(event)

	return recordFromSnapshot(*snapshot, storableEvent.SequenceNumber), nil
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
