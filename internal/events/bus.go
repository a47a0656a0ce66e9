package events

import (
	"context"
	"log/slog"
)

// Bus is the single entry point for emitting a domain event. Delivery is
// best-effort on every leg: a broker outage never fails the operation that
// produced the event.
type Bus struct {
	hub  *Hub
	amqp *AMQPPublisher // nil when no broker is configured
	log  *slog.Logger
}

func NewBus(hub *Hub, amqp *AMQPPublisher, logger *slog.Logger) *Bus {
	return &Bus{hub: hub, amqp: amqp, log: logger}
}

func (b *Bus) Publish(ctx context.Context, typ string, payload any) {
	ev := NewEvent(typ, payload)
	b.hub.Broadcast(ev)
	if b.amqp != nil {
		if err := b.amqp.Publish(ctx, ev); err != nil {
			b.log.Warn("broker publish failed", "type", typ, "error", err)
		}
	}
}
