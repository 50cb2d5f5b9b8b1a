package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	t.Run("SubscribeReceivesPublished", func(t *testing.T) {
		bus := NewEventBus(4)
		id, ch := bus.Subscribe()
		defer bus.Unsubscribe(id)

		bus.Publish(Event{Type: EventStatsUpdated, Data: "payload"})

		event := <-ch
		assert.Equal(t, EventStatsUpdated, event.Type)
		assert.Equal(t, "payload", event.Data)
	})

	t.Run("FanOutToAllClients", func(t *testing.T) {
		bus := NewEventBus(4)
		id1, ch1 := bus.Subscribe()
		id2, ch2 := bus.Subscribe()
		defer bus.Unsubscribe(id1)
		defer bus.Unsubscribe(id2)

		assert.Equal(t, 2, bus.SubscriberCount())

		bus.Publish(Event{Type: EventStatusChanged})
		assert.Equal(t, EventStatusChanged, (<-ch1).Type)
		assert.Equal(t, EventStatusChanged, (<-ch2).Type)
	})

	t.Run("PublishNeverBlocksOnFullBuffer", func(t *testing.T) {
		bus := NewEventBus(2)
		id, ch := bus.Subscribe()
		defer bus.Unsubscribe(id)

		// Nobody is reading; extra events are dropped, not queued
		for i := 0; i < 10; i++ {
			bus.Publish(Event{Type: EventHeartbeat})
		}

		assert.Len(t, ch, 2)
	})

	t.Run("UnsubscribeClosesChannel", func(t *testing.T) {
		bus := NewEventBus(4)
		id, ch := bus.Subscribe()

		bus.Unsubscribe(id)
		_, open := <-ch
		assert.False(t, open)
		assert.Equal(t, 0, bus.SubscriberCount())

		// Double unsubscribe is harmless
		bus.Unsubscribe(id)
	})

	t.Run("PublishWithNoClients", func(t *testing.T) {
		bus := NewEventBus(4)
		require.NotPanics(t, func() {
			bus.Publish(Event{Type: EventCampaignCreated})
		})
	})
}
