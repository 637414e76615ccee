// Package eventbus decouples the catalog operations from their
// follow-ups: instead of the save path calling the list refresh directly,
// it publishes an event and the wiring decides what listens.
package eventbus

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type EventType string

const (
	EventProductsRefreshed EventType = "products.refreshed"
	EventProductSaved      EventType = "product.saved"
	EventProductDeleted    EventType = "product.deleted"
	EventImportCompleted   EventType = "import.completed"
)

// Event is one catalog post-condition.
type Event struct {
	Type      EventType
	ProductID string // saved/deleted events
	Count     int    // refreshed/import events
	At        time.Time
}

type Handler func(Event)

// Bus is an in-process publish-subscribe registry. Handlers run on the
// publisher's goroutine: the admin surface is a single-operator tool and
// ordering of follow-ups matters more than throughput.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	log      zerolog.Logger
}

func New(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers the event to every registered handler in
// subscription order.
func (b *Bus) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	b.log.Debug().Str("event", string(event.Type)).Int("handlers", len(handlers)).Msg("publish")
	for _, handler := range handlers {
		handler(event)
	}
}
