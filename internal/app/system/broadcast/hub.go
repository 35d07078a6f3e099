// Package broadcast fans out event change notifications to every
// currently-connected observer.
//
// Delivery is best-effort and at-most-once: there is no replay and no
// durable log. Observers that disconnect simply re-fetch full state on
// reconnect. A slow observer never stalls the write path; its messages
// are dropped once its buffer fills.
package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind tags an envelope with the mutation that produced it. The values
// are the wire names clients subscribe to.
type Kind string

const (
	KindCreated Kind = "newEvent"
	KindUpdated Kind = "eventUpdated"
	KindDeleted Kind = "eventDeleted"
)

// Envelope is one broadcast message. Payload is the post-mutation event
// snapshot, or the event id (hex) for deletions.
type Envelope struct {
	Kind    Kind `json:"type"`
	Payload any  `json:"payload"`
}

// subscriberBuffer bounds how far a subscriber may fall behind before
// messages are dropped for it.
const subscriberBuffer = 16

// Hub is the process-wide observer set. The set is mutated only on
// connect/disconnect and read for each publish, so it is guarded by a
// RWMutex; Publish takes the read lock.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan Envelope
	log  *zap.Logger
}

// NewHub constructs an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[string]chan Envelope),
		log:  logger,
	}
}

// Subscribe registers a new observer and returns its id together with
// the channel it will receive envelopes on. The channel is closed by
// Unsubscribe.
func (h *Hub) Subscribe() (string, <-chan Envelope) {
	id := uuid.NewString()
	ch := make(chan Envelope, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe removes an observer and closes its channel. Unknown ids
// are a no-op, so disconnect paths can call it unconditionally.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if ok {
		close(ch)
	}
}

// Publish delivers an envelope to every current observer. Sends are
// non-blocking: an observer whose buffer is full misses the message.
// Callers publish only after a write has committed.
func (h *Hub) Publish(kind Kind, payload any) {
	env := Envelope{Kind: kind, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- env:
		default:
			h.log.Warn("broadcast dropped for slow subscriber",
				zap.String("subscriber", id),
				zap.String("kind", string(kind)))
		}
	}
}

// Count returns the number of connected observers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
