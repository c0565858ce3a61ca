package track

import "sync"

// DefaultSinkBuffer is the per-subscriber channel capacity used when the hub
// is constructed with a non-positive buffer size.
const DefaultSinkBuffer = 64

type sink struct {
	updates chan LocationUpdate
}

// Subscription is the handle returned by Subscribe. The Channel Registry
// holds a non-owning reference to the underlying sink; the subscriber that
// created it must release it with Unsubscribe.
type Subscription struct {
	orderID string
	s       *sink
	once    sync.Once
}

// OrderID returns the canonical order id this subscription is bound to.
func (s *Subscription) OrderID() string { return s.orderID }

// Updates returns the channel delivering published location updates, in
// publish order. The channel is closed when the subscription is released or
// the hub shuts down.
func (s *Subscription) Updates() <-chan LocationUpdate { return s.s.updates }

// Hub is the in-process channel registry: a concurrent map from order id to
// the set of live subscriber sinks. Entries exist only while at least one
// sink is registered; nothing is persisted or queued.
type Hub struct {
	mu     sync.RWMutex
	orders map[string]map[*sink]struct{}
	buffer int
	closed bool
}

// NewHub creates an empty registry. sinkBuffer is the per-subscriber channel
// capacity; updates beyond it are dropped for that subscriber only.
func NewHub(sinkBuffer int) *Hub {
	if sinkBuffer <= 0 {
		sinkBuffer = DefaultSinkBuffer
	}
	return &Hub{
		orders: make(map[string]map[*sink]struct{}),
		buffer: sinkBuffer,
	}
}

// Subscribe registers a new sink under orderID, creating the order's entry if
// absent, and returns the handle the caller must later pass to Unsubscribe.
func (h *Hub) Subscribe(orderID string) *Subscription {
	orderID = CanonicalOrderID(orderID)
	sk := &sink{updates: make(chan LocationUpdate, h.buffer)}
	sub := &Subscription{orderID: orderID, s: sk}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sk.updates)
		return sub
	}
	set, ok := h.orders[orderID]
	if !ok {
		set = make(map[*sink]struct{})
		h.orders[orderID] = set
	}
	set[sk] = struct{}{}
	return sub
}

// Unsubscribe removes the subscription's sink and closes its channel. The
// order's entry is deleted as soon as its last sink is removed. Safe to call
// more than once; only the first call has any effect.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	sub.once.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		set, ok := h.orders[sub.orderID]
		if !ok {
			// Hub closed in the meantime; Close already released the sink.
			return
		}
		if _, registered := set[sub.s]; !registered {
			return
		}
		delete(set, sub.s)
		close(sub.s.updates)
		if len(set) == 0 {
			delete(h.orders, sub.orderID)
		}
	})
}

// Publish delivers upd to every sink currently registered for orderID.
// With no entry it is a silent no-op. Delivery is non-blocking per sink: a
// full buffer drops the update for that subscriber only, never stalling or
// aborting delivery to the rest. Returns the number of sinks that accepted
// the update and the number that dropped it.
func (h *Hub) Publish(orderID string, upd LocationUpdate) (sent, dropped int) {
	orderID = CanonicalOrderID(orderID)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sk := range h.orders[orderID] {
		select {
		case sk.updates <- upd:
			sent++
		default:
			// Subscriber buffer full, drop for this sink
			dropped++
		}
	}
	return sent, dropped
}

// SubscriberCount reports how many sinks are registered for orderID.
func (h *Hub) SubscriberCount(orderID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.orders[CanonicalOrderID(orderID)])
}

// HasEntry reports whether the registry currently holds an entry for orderID.
func (h *Hub) HasEntry(orderID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.orders[CanonicalOrderID(orderID)]
	return ok
}

// Close shuts the hub down: every registered sink channel is closed so
// streaming handlers unblock and exit, and the registry empties. Subsequent
// Subscribes return already-closed subscriptions; Publish becomes a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.orders {
		for sk := range set {
			close(sk.updates)
		}
	}
	h.orders = make(map[string]map[*sink]struct{})
}
