package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EventType enumerates the live event kinds pushed to admin stream clients
type EventType string

const (
	EventConnected       EventType = "connected"
	EventStatsUpdated    EventType = "stats-updated"
	EventCampaignCreated EventType = "campaign-created"
	EventStatusChanged   EventType = "status-changed"
	EventCampaignDeleted EventType = "campaign-deleted"
	EventHeartbeat       EventType = "heartbeat"
)

// Event is one message on the live stream
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// EventBus fans campaign lifecycle events out to connected stream clients.
// Publishing never blocks: slow consumers lose events rather than stalling
// dispatch, and the stream rides on periodic stats refreshes to recover.
type EventBus interface {
	Subscribe() (id uint64, ch <-chan Event)
	Unsubscribe(id uint64)
	Publish(event Event)
	SubscriberCount() int
}

var (
	// Connected live-stream clients
	streamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "event_stream_clients",
		Help: "Number of connected live-stream clients",
	})

	// Events dropped because a client buffer was full
	streamDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_stream_dropped_events_total",
		Help: "Events dropped because a client buffer was full",
	})
)

// EventBusImpl implements EventBus
type EventBusImpl struct {
	mu         sync.Mutex
	nextID     uint64
	subs       map[uint64]chan Event
	bufferSize int
}

// NewEventBus creates a new event bus. bufferSize bounds the per-client
// backlog before events are dropped.
func NewEventBus(bufferSize int) EventBus {
	if bufferSize <= 0 {
		bufferSize = 16
	}

	return &EventBusImpl{
		subs:       make(map[uint64]chan Event),
		bufferSize: bufferSize,
	}
}

// Subscribe registers a new stream client and returns its event channel
func (b *EventBusImpl) Subscribe() (uint64, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Event, b.bufferSize)
	b.subs[id] = ch
	streamClients.Set(float64(len(b.subs)))

	return id, ch
}

// Unsubscribe removes a stream client and closes its channel
func (b *EventBusImpl) Unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
	streamClients.Set(float64(len(b.subs)))
}

// Publish delivers the event to every client whose buffer has room
func (b *EventBusImpl) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			streamDropped.Inc()
		}
	}
}

// SubscriberCount returns the number of connected clients
func (b *EventBusImpl) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}
