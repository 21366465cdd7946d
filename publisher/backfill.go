package publisher

import (
	"context"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/shell"
	"github.com/shelfwise/circulate/ledgerstore"
)

// Backfill replays the transaction log and returns the availability records
// committed after fromSequence, in commit order, optionally restricted to one
// library. A reconnecting subscriber calls this with its last seen sequence
// number, then resumes on a live subscription; overlap between the two is
// covered by the at-least-once contract.
//
// The replay starts at the beginning of the log regardless of fromSequence:
// a record's state is a fold over the copy's full history, not a single event.
func Backfill(
	ctx context.Context,
	eventStore shell.QueriesEvents,
	libraryID core.LibraryIDString,
	fromSequence ledgerstore.SequenceNumberUint,
) ([]AvailabilityRecord, error) {

	types := copyEventTypes()

	filter := ledgerstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(types[0], types[1:]...).
		Finalize()

	storableEvents, _, err := eventStore.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	snapshots := make(map[core.CopyIDString]*core.CopySnapshot)

	var records []AvailabilityRecord

	for _, storableEvent := range storableEvents {
		event, unmarshalErr := shell.DomainEventFrom(storableEvent)
		if unmarshalErr != nil {
			return nil, unmarshalErr
		}

		copyID := copyIDOf(event)

		snapshot, ok := snapshots[copyID]
		if !ok {
			snapshot = &core.CopySnapshot{CopyID: copyID}
			snapshots[copyID] = snapshot
		}

		snapshot.Apply(event)

		if storableEvent.SequenceNumber <= fromSequence {
			continue
		}

		if libraryID != "" && snapshot.LibraryID != libraryID {
			continue
		}

		records = append(records, recordFromSnapshot(*snapshot, storableEvent.SequenceNumber))
	}

	return records, nil
}
