// Package events is the in-process notification emitter. Publishes are
// fire-and-forget: no acknowledgment, no replay, and a slow subscriber
// simply loses events once its buffer fills.
package events

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/metrics"
)

const subscriberBuffer = 16

// Event is a named state-change notification with a small payload.
type Event struct {
	Name    string                 `json:"name"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Event names emitted by the handlers.
const (
	OrderCreated       = "order:created"
	OrderStatusChanged = "order:status"
	OrderAssigned      = "order:assigned"
	CartUpdated        = "cart:updated"
	ContactReceived    = "contact:received"
)

// Hub fans events out to subscribed clients.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new listener. The returned cancel func must be
// called when the client disconnects.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber that can take it right
// now and drops it for the rest.
func (h *Hub) Publish(name string, payload map[string]interface{}) {
	event := Event{Name: name, Payload: payload}
	metrics.EventsPublished.WithLabelValues(name).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			log.WithField("event", name).Debug("subscriber buffer full, event dropped")
		}
	}
}

// SubscriberCount reports the number of connected listeners.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
