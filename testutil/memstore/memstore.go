// Package memstore provides an in-memory transaction-log store with the same
// conditional-append contract as the Postgres engine. Handler tests use it to
// exercise full command flows, including append races, without a database.
package memstore

import (
	"context"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/shelfwise/circulate/ledgerstore"
)

// Store is an in-memory ledgerstore implementation guarding a single event
// slice with a mutex. The conditional append re-evaluates the filter under the
// lock, exactly like the SQL engine's INSERT ... SELECT ... WHERE does.
type Store struct {
	mu      sync.Mutex
	events  []ledgerstore.StorableEvent
	nextSeq ledgerstore.SequenceNumberUint
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{nextSeq: 1}
}

// Query returns all events matching the filter in sequence order, plus the
// highest sequence number among them.
func (s *Store) Query(_ context.Context, filter ledgerstore.Filter) (
	ledgerstore.StorableEvents,
	ledgerstore.MaxSequenceNumberUint,
	error,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, maxSeq := s.match(filter)

	return matches, maxSeq, nil
}

// Append appends the events iff no event matching the filter has been
// committed past expectedMaxSequenceNumber, mirroring the SQL engine's
// compare-and-set. On a lost race it returns ErrConcurrencyConflict and
// appends nothing.
func (s *Store) Append(
	_ context.Context,
	filter ledgerstore.Filter,
	expectedMaxSequenceNumber ledgerstore.MaxSequenceNumberUint,
	storableEvent ledgerstore.StorableEvent,
	additionalStorableEvents ...ledgerstore.StorableEvent,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, maxSeq := s.match(filter)
	if maxSeq != expectedMaxSequenceNumber {
		return ledgerstore.ErrConcurrencyConflict
	}

	for _, event := range append([]ledgerstore.StorableEvent{storableEvent}, additionalStorableEvents...) {
		event.SequenceNumber = s.nextSeq
		s.nextSeq++
		s.events = append(s.events, event)
	}

	return nil
}

// AllEvents returns a copy of the full log in commit order.
func (s *Store) AllEvents() ledgerstore.StorableEvents {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.events)
}

func (s *Store) match(filter ledgerstore.Filter) (ledgerstore.StorableEvents, ledgerstore.MaxSequenceNumberUint) {
	matches := make(ledgerstore.StorableEvents, 0)
	maxSeq := ledgerstore.MaxSequenceNumberUint(0)

	for _, event := range s.events {
		if !eventMatches(event, filter) {
			continue
		}

		matches = append(matches, event)

		if event.SequenceNumber > maxSeq {
			maxSeq = event.SequenceNumber
		}
	}

	return matches, maxSeq
}

func eventMatches(event ledgerstore.StorableEvent, filter ledgerstore.Filter) bool {
	if filter.SequenceNumberHigherThan() > 0 && event.SequenceNumber <= filter.SequenceNumberHigherThan() {
		return false
	}

	if !filter.OccurredFrom().IsZero() && event.OccurredAt.Before(filter.OccurredFrom()) {
		return false
	}

	if !filter.OccurredUntil().IsZero() && event.OccurredAt.After(filter.OccurredUntil()) {
		return false
	}

	items := filter.Items()
	if len(items) == 0 {
		return true
	}

	for _, item := range items {
		if itemMatches(event, item) {
			return true
		}
	}

	return false
}

func itemMatches(event ledgerstore.StorableEvent, item ledgerstore.FilterItem) bool {
	eventTypes := item.EventTypes()
	if len(eventTypes) > 0 && !slices.Contains(eventTypes, event.EventType) {
		return false
	}

	predicates := item.Predicates()
	if len(predicates) == 0 {
		return true
	}

	var payload map[string]any
	if err := jsoniter.ConfigFastest.Unmarshal(event.PayloadJSON, &payload); err != nil {
		return false
	}

	if item.AllPredicatesMustMatch() {
		for _, predicate := range predicates {
			if !predicateMatches(payload, predicate) {
				return false
			}
		}

		return true
	}

	// Predicates within one item are OR-ed, like the SQL engine's payload @> list.
	for _, predicate := range predicates {
		if predicateMatches(payload, predicate) {
			return true
		}
	}

	return false
}

func predicateMatches(payload map[string]any, predicate ledgerstore.FilterPredicate) bool {
	value, ok := payload[predicate.Key()]
	if !ok {
		return false
	}

	stringValue, isString := value.(string)

	return isString && stringValue == predicate.Val()
}
