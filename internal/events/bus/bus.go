// Package bus fans domain events out to in-process or NATS subscribers.
package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is one domain event. The gateway forwards the whole envelope to
// clients as a domain.event notification.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent stamps an event of eventType emitted by source.
func NewEvent(eventType, source string, data map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventHandler consumes one event. Errors are logged by the bus and never
// reach the publisher.
type EventHandler func(ctx context.Context, event *Event) error

// Subscription is released with Unsubscribe. Releasing twice is harmless.
type Subscription interface {
	Unsubscribe() error
}

// EventBus publishes on dot-separated subjects such as "task.moved".
// Subscribers may use "*" for one token and ">" for the remainder.
type EventBus interface {
	Publish(ctx context.Context, subject string, event *Event) error
	Subscribe(subject string, handler EventHandler) (Subscription, error)
	// IsConnected is false after Close, or while the NATS link is down.
	IsConnected() bool
	Close()
}
