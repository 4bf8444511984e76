package adminstate

import (
	"sync"
	"sync/atomic"

	syncmap "github.com/SaveTheRbtz/generic-sync-map-go"

	"github.com/proxycraft/gqlproxy/internal/model"
)

// busCapacity bounds the per-subscriber buffer of the broadcast bus.
// A production rewrite should make this configurable (spec.md §9, Open
// Questions); it is a fixed constant here, matching the source
// behavior.
const busCapacity = 128

// Lagged is returned by Subscription.Recv in place of a Message when
// that subscriber fell behind and the bus had to drop the oldest
// undelivered items to keep publishing non-blocking. It is not sent
// through the subscription's channel; Recv builds it from the drop
// counter.
type Lagged struct {
	Skipped uint64
}

// Event is either a Message or a Lagged marker, never both.
type Event struct {
	Message *model.Message
	Lagged  *Lagged
}

// subscription is one independent view onto the bus: its own buffered
// channel plus a drop counter incremented by the publisher when the
// channel is full.
type subscription struct {
	id      uint64
	ch      chan Event
	mu      sync.Mutex
	pending uint64 // messages dropped since the last delivered Lagged marker
}

// Bus is a bounded, drop-oldest, multi-subscriber broadcast channel.
// Publishing never blocks: when a subscriber's buffer is full, the
// oldest undelivered item for that subscriber is dropped and its next
// receive yields a Lagged signal instead of a payload. A publish with
// zero subscribers is a no-op — callers should check SubscriberCount
// before serializing a payload they would otherwise discard.
type Bus struct {
	subs   syncmap.MapOf[uint64, *subscription]
	nextID uint64
	count  int64
}

// NewBus constructs an empty broadcast bus.
func NewBus() *Bus {
	return &Bus{}
}

// SubscriberCount reports how many subscriptions are currently
// attached, letting publishers skip serializing a Message that nobody
// would receive.
func (b *Bus) SubscriberCount() int {
	return int(atomic.LoadInt64(&b.count))
}

// Subscribe registers a new, independent subscription that observes
// only Messages published after this call returns.
func (b *Bus) Subscribe() *Subscription {
	id := atomic.AddUint64(&b.nextID, 1)
	sub := &subscription{id: id, ch: make(chan Event, busCapacity)}
	b.subs.Store(id, sub)
	atomic.AddInt64(&b.count, 1)
	return &Subscription{bus: b, sub: sub}
}

// Publish sends msg to every current subscriber, dropping the oldest
// buffered item for any subscriber whose channel is full.
func (b *Bus) Publish(msg model.Message) {
	b.subs.Range(func(_ uint64, sub *subscription) bool {
		sub.mu.Lock()
		defer sub.mu.Unlock()

		select {
		case sub.ch <- Event{Message: &msg}:
		default:
			// buffer full: drop the oldest entry for this subscriber and retry once.
			select {
			case <-sub.ch:
				sub.pending++
			default:
			}
			select {
			case sub.ch <- Event{Message: &msg}:
			default:
				sub.pending++
			}
		}
		return true
	})
}

func (b *Bus) unsubscribe(id uint64) {
	if _, ok := b.subs.Load(id); ok {
		b.subs.Delete(id)
		atomic.AddInt64(&b.count, -1)
	}
}

// Subscription is one admin subscriber's independent view onto the
// bus.
type Subscription struct {
	bus *Bus
	sub *subscription
}

// Recv blocks until the next Event is available, or until done is
// closed, in which case ok is false. A Lagged event is synthesized
// locally (not delivered through the channel) whenever this
// subscriber's pending-drop counter is non-zero, so it is always
// reported before the next real Message.
func (s *Subscription) Recv(done <-chan struct{}) (Event, bool) {
	s.sub.mu.Lock()
	if s.sub.pending > 0 {
		skipped := s.sub.pending
		s.sub.pending = 0
		s.sub.mu.Unlock()
		return Event{Lagged: &Lagged{Skipped: skipped}}, true
	}
	s.sub.mu.Unlock()

	select {
	case ev, ok := <-s.sub.ch:
		return ev, ok
	case <-done:
		return Event{}, false
	}
}

// Close detaches the subscription from the bus. Safe to call more
// than once.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s.sub.id)
}
