package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const metadataEventType = "event_type"

// GoChannelBus is the in-process transport, used when no NATS server is
// configured. Every event goes to one topic; subscribers filter by type.
type GoChannelBus struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewGoChannelBus(topic string, logger watermill.LoggerAdapter) *GoChannelBus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &GoChannelBus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, logger),
		topic:  topic,
	}
}

func (b *GoChannelBus) Publish(_ context.Context, event Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(metadataEventType, event.EventType())

	if err := b.pubSub.Publish(b.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event to topic %s: %w", b.topic, err)
	}
	return nil
}

// Subscribe consumes until ctx is done. subject filters on event type; an
// empty subject or "*" receives everything. durable is ignored in process.
func (b *GoChannelBus) Subscribe(ctx context.Context, subject, _ string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, b.topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", b.topic, err)
	}

	go func() {
		for msg := range messages {
			if subject != "" && subject != "*" && msg.Metadata.Get(metadataEventType) != subject {
				msg.Ack()
				continue
			}

			event, err := Decode(msg.Payload)
			if err != nil {
				// Undecodable messages would be redelivered forever.
				msg.Ack()
				continue
			}

			if err := handler(msg.Context(), event); err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()

	return nil
}

func (b *GoChannelBus) Close() error {
	return b.pubSub.Close()
}
