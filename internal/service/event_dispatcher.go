package service

import (
	"context"

	"study-assistant-be/pkg/events"
	pktNats "study-assistant-be/pkg/nats"
)

// LocalEventDispatcher delivers events to in-process handlers. It stands in
// for NATS when the broker is unreachable so quiz results are still recorded.
type LocalEventDispatcher struct {
	handlers map[string][]pktNats.EventHandler
}

var _ events.Publisher = (*LocalEventDispatcher)(nil)

func NewLocalEventDispatcher() *LocalEventDispatcher {
	return &LocalEventDispatcher{handlers: make(map[string][]pktNats.EventHandler)}
}

// Handle registers handler for eventType. Not safe to call concurrently with Publish.
func (d *LocalEventDispatcher) Handle(eventType string, handler pktNats.EventHandler) {
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

func (d *LocalEventDispatcher) Publish(ctx context.Context, event events.Event) error {
	base := events.BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	}
	for _, h := range d.handlers[base.Type] {
		if err := h(ctx, base); err != nil {
			return err
		}
	}
	return nil
}
