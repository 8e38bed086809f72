package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(OrderStatusChanged, map[string]interface{}{"orderId": "abc"})

	event := <-ch
	assert.Equal(t, OrderStatusChanged, event.Name)
	assert.Equal(t, "abc", event.Payload["orderId"])
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(CartUpdated, nil)
	}

	// only the buffered events arrive, the rest were dropped, and the
	// publisher never blocked
	assert.Len(t, ch, subscriberBuffer)
}

func TestCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe()
	require.Equal(t, 1, hub.SubscriberCount())

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount())

	// double cancel is safe
	cancel()
}
