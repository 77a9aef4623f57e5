package events

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/echomind/internal/observe"
)

// EventType represents the type of workflow event.
type EventType string

const (
	EventMemoryStored        EventType = "memory_stored"
	EventMemoryDeleted       EventType = "memory_deleted"
	EventSearchCompleted     EventType = "search_completed"
	EventListingFetched      EventType = "listing_fetched"
	EventListingInconsistent EventType = "listing_inconsistent"
	EventValidationRejected  EventType = "validation_rejected"
	EventRequestFailed       EventType = "request_failed"
	EventStatusChecked       EventType = "status_checked"
)

// Event represents a workflow outcome with associated data.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Workflow  string
	Data      map[string]interface{}
}

// Handler is a function that handles events.
type Handler func(Event)

// Bus manages event publication and subscription.
// Workflows publish their outcomes here; loggers and views subscribe.
type Bus struct {
	mu          sync.RWMutex
	handlers    map[EventType][]Handler
	allHandlers []Handler
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers a handler for all event types.
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allHandlers = append(b.allHandlers, handler)
}

// Publish sends an event to all registered handlers.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, handler := range b.handlers[event.Type] {
		handler(event)
	}
	for _, handler := range b.allHandlers {
		handler(event)
	}
}

// PublishWithData publishes an event with associated data.
func (b *Bus) PublishWithData(eventType EventType, workflow string, data map[string]interface{}) {
	b.Publish(Event{
		Type:     eventType,
		Workflow: workflow,
		Data:     data,
	})
}

// LogHandler writes every event to the observer's log. Failures and rejected
// input log at warn, everything else at info.
func LogHandler(obs *observe.Observer) Handler {
	return func(e Event) {
		entry := obs.Log().Info()
		switch e.Type {
		case EventRequestFailed, EventValidationRejected, EventListingInconsistent:
			entry = obs.Log().Warn()
		}
		entry = entry.Str("event", string(e.Type)).Str("workflow", e.Workflow)
		for k, v := range e.Data {
			switch val := v.(type) {
			case string:
				entry = entry.Str(k, val)
			case int:
				entry = entry.Int(k, val)
			}
		}
		entry.Msg("workflow event")
	}
}
