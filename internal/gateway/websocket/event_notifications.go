package websocket

import (
	"context"

	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/events"
	"github.com/shifa-s11/board-task/internal/events/bus"
	ws "github.com/shifa-s11/board-task/pkg/websocket"
)

// EventBroadcaster forwards domain events to every connected client.
type EventBroadcaster struct {
	hub           *Hub
	subscriptions []bus.Subscription
	logger        *logger.Logger
}

// RegisterEventNotifications subscribes to the board, task, data and auth
// subjects. The subscriptions end with ctx.
func RegisterEventNotifications(ctx context.Context, eventBus bus.EventBus, hub *Hub, log *logger.Logger) *EventBroadcaster {
	b := &EventBroadcaster{
		hub:    hub,
		logger: log.WithFields(zap.String("component", "ws-event-broadcaster")),
	}
	if eventBus == nil {
		return b
	}

	for _, subject := range []string{
		events.AllBoardEvents,
		events.AllTaskEvents,
		events.AllDataEvents,
		events.AllAuthEvents,
	} {
		b.subscribe(eventBus, subject)
	}

	go func() {
		<-ctx.Done()
		b.Close()
	}()

	return b
}

// Close drops every subscription.
func (b *EventBroadcaster) Close() {
	for _, sub := range b.subscriptions {
		if sub != nil {
			_ = sub.Unsubscribe()
		}
	}
	b.subscriptions = nil
}

func (b *EventBroadcaster) subscribe(eventBus bus.EventBus, subject string) {
	sub, err := eventBus.Subscribe(subject, func(ctx context.Context, event *bus.Event) error {
		msg, err := ws.NewNotification(ws.ActionDomainEvent, event)
		if err != nil {
			b.logger.Error("failed to build websocket notification", zap.String("event_type", event.Type), zap.Error(err))
			return nil
		}
		b.hub.Broadcast(msg)
		return nil
	})
	if err != nil {
		b.logger.Error("failed to subscribe to events", zap.String("subject", subject), zap.Error(err))
		return
	}
	b.subscriptions = append(b.subscriptions, sub)
}
