package core

import (
	"time"

	"github.com/google/uuid"
)

// Event is an outbound notification emitted by the core. Emission is
// fire-and-forget; no acknowledgement is awaited.
type Event struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// Event names emitted by the dispatcher.
const (
	EventSetupCompleted  = "setup.completed"
	EventSetupRolledBack = "setup.rolled_back"
)

// Notifier is the outbound notification port the core writes to.
type Notifier interface {
	Emit(name string, payload map[string]any)
}

// ChannelNotifier delivers events over a bounded channel. When no listener
// drains the channel, Emit drops the event instead of blocking the emitting
// operation.
type ChannelNotifier struct {
	events chan Event
	logger Logger
}

// NewChannelNotifier creates a notifier with the given buffer capacity.
func NewChannelNotifier(capacity int, logger Logger) *ChannelNotifier {
	if capacity <= 0 {
		capacity = 64
	}
	return &ChannelNotifier{
		events: make(chan Event, capacity),
		logger: logger,
	}
}

// Emit queues an event for delivery, dropping it if the buffer is full.
func (n *ChannelNotifier) Emit(name string, payload map[string]any) {
	event := Event{
		ID:        uuid.NewString(),
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	select {
	case n.events <- event:
	default:
		n.logger.Warn("event dropped, notification buffer full",
			"event", name,
			"capacity", cap(n.events),
		)
	}
}

// Events returns the receive side of the notification channel.
func (n *ChannelNotifier) Events() <-chan Event {
	return n.events
}
