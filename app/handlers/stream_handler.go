// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/services"
	"github.com/gofiber/fiber/v3"
)

// heartbeatInterval keeps intermediaries from closing idle SSE connections
const heartbeatInterval = 15 * time.Second

// StreamHandlerInterface defines the contract for the live event stream
type StreamHandlerInterface interface {
	StreamEvents(c fiber.Ctx) error
}

// StreamHandler serves the admin live event stream over SSE
type StreamHandler struct {
	eventBus services.EventBus
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(eventBus services.EventBus) *StreamHandler {
	return &StreamHandler{
		eventBus: eventBus,
	}
}

// StreamEvents streams campaign lifecycle events as server-sent events. The
// connection stays open until the client disconnects.
func (h *StreamHandler) StreamEvents(c fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	id, events := h.eventBus.Subscribe()

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer h.eventBus.Unsubscribe(id)

		if err := writeEvent(w, services.Event{Type: services.EventConnected}); err != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := writeEvent(w, event); err != nil {
					return
				}
			case <-heartbeat.C:
				if err := writeEvent(w, services.Event{Type: services.EventHeartbeat}); err != nil {
					return
				}
			}
		}
	})
}

// writeEvent renders one event in SSE wire format and flushes it. A write or
// flush error means the client went away.
func writeEvent(w *bufio.Writer, event services.Event) error {
	if _, err := w.WriteString("event: " + string(event.Type) + "\n"); err != nil {
		return err
	}

	payload := []byte("{}")
	if event.Data != nil {
		if bs, err := json.Marshal(event.Data); err == nil {
			payload = bs
		}
	}
	if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
		return err
	}

	return w.Flush()
}
