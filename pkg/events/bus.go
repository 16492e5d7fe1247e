package events

import "context"

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Handler processes one delivered event. A returned error asks the transport
// to redeliver.
type Handler func(ctx context.Context, event Event) error

type Subscriber interface {
	Subscribe(ctx context.Context, subject, durable string, handler Handler) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
