package publisher

import (
	"sync"

	"github.com/shelfwise/circulate/circulation/core"
)

// DefaultSubscriberBuffer is the per-subscriber channel capacity used when a
// subscription does not specify its own.
const DefaultSubscriberBuffer = 256

// Subscription is one subscriber's view of the availability feed. Records
// arrive on Records until Cancel is called or the subscriber falls too far
// behind, in which case the channel is closed and the subscriber is expected
// to reconnect with a backfill from its last seen sequence number.
type Subscription struct {
	id        uint64
	libraryID core.LibraryIDString
	records   chan AvailabilityRecord
	hub       *Hub
	once      sync.Once
}

// Records returns the channel availability records are delivered on. The
// channel is closed when the subscription ends.
func (s *Subscription) Records() <-chan AvailabilityRecord {
	return s.records
}

// Cancel ends the subscription and closes the records channel.
func (s *Subscription) Cancel() {
	s.hub.remove(s)
}

// Hub fans availability records out to subscribers, filtered by library.
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]*Subscription
	nextID      uint64
	buffer      int
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithSubscriberBuffer sets the per-subscriber channel capacity.
func WithSubscriberBuffer(buffer int) HubOption {
	return func(h *Hub) {
		if buffer > 0 {
			h.buffer = buffer
		}
	}
}

// NewHub creates an empty Hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subscribers: make(map[uint64]*Subscription),
		buffer:      DefaultSubscriberBuffer,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Subscribe registers a subscriber for one library's records. An empty
// library ID subscribes to all libraries.
func (h *Hub) Subscribe(libraryID core.LibraryIDString) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{
		id:        h.nextID,
		libraryID: libraryID,
		records:   make(chan AvailabilityRecord, h.buffer),
		hub:       h,
	}
	h.subscribers[sub.id] = sub

	return sub
}

// Publish delivers the record to every matching subscriber. A subscriber
// whose buffer is full is disconnected rather than silently skipped: dropping
// a record would break the at-least-once contract, and the forced reconnect
// funnels the laggard through the backfill path instead.
func (h *Hub) Publish(record AvailabilityRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subscribers {
		if sub.libraryID != "" && sub.libraryID != record.LibraryID {
			continue
		}

		select {
		case sub.records <- record:
		default:
			h.removeLocked(sub)
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers)
}

// Close disconnects all subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subscribers {
		h.removeLocked(sub)
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *Subscription) {
	if _, ok := h.subscribers[sub.id]; !ok {
		return
	}

	delete(h.subscribers, sub.id)
	sub.once.Do(func() { close(sub.records) })
}
