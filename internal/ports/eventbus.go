// The EventBus interface for event-driven communication between services and
// observers. Publishers never know who is listening.
package ports

import (
	"github.com/sargamapp/sargam/internal/domain"
)

// EventBus publishes domain events to subscribers.
//
// Thread-safety: implementations must be thread-safe; events may be published
// and subscribed from multiple goroutines simultaneously.
type EventBus interface {
	// Publish delivers an event to all subscribers of its type. Handlers
	// should return quickly; slow work belongs on a background goroutine.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the given type and returns
	// an id for Unsubscribe. The same handler may be registered repeatedly,
	// each registration receiving its own id.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a subscription. Unknown ids are a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler for every event regardless of type,
	// useful for logging and debugging.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// Close shuts the bus down; further publishes are dropped.
	Close() error
}
