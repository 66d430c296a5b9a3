package notify

import (
	"sync"
	"time"
)

// RefreshEvent asks dependent views to re-fetch.
type RefreshEvent struct {
	Source string // resource whose data changed
	At     time.Time
}

// Refresh broadcasts RefreshEvents to subscribers. Slow subscribers miss
// events rather than block the publisher.
type Refresh struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan RefreshEvent
	closed bool
}

// NewRefresh returns a refresh signal with no subscribers.
func NewRefresh() *Refresh {
	return &Refresh{subs: make(map[int]chan RefreshEvent)}
}

// Subscribe registers a buffered channel and returns it with its id.
func (r *Refresh) Subscribe(buffer int) (int, <-chan RefreshEvent) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan RefreshEvent, buffer)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		close(ch)
		return 0, ch
	}
	r.nextID++
	r.subs[r.nextID] = ch
	return r.nextID, ch
}

// Unsubscribe removes and closes a subscription.
func (r *Refresh) Unsubscribe(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.subs[id]; ok {
		delete(r.subs, id)
		close(ch)
	}
}

// Publish sends an event for source to every subscriber.
func (r *Refresh) Publish(source string) {
	ev := RefreshEvent{Source: source, At: time.Now()}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close closes all subscriptions. Later Publish calls are no-ops.
func (r *Refresh) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
}

// Hub bundles the alert slot and refresh signal owned by the application root.
type Hub struct {
	Alerts  *Slot
	Refresh *Refresh
}

// NewHub creates the root notification state.
func NewHub() *Hub {
	return &Hub{
		Alerts:  NewSlot(),
		Refresh: NewRefresh(),
	}
}

// Close tears the hub down when the root exits.
func (h *Hub) Close() {
	h.Alerts.OnSet(nil)
	h.Refresh.Close()
}
