package service

import (
	"context"

	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/pkg/events"
)

const turnEventsDurable = "turn-event-log"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService records every completed turn in the event log.
type consumerService struct {
	subscriber events.Subscriber
	eventLog   logger.ILogger
}

func NewConsumerService(subscriber events.Subscriber, eventLog logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		eventLog:   eventLog,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	return cs.subscriber.Subscribe(ctx, events.TypeTurnCompleted, turnEventsDurable, cs.handle)
}

func (cs *consumerService) handle(_ context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["occurred_at"] = event.Timestamp()

	cs.eventLog.Info("TurnEvents", event.EventType(), details)
	return nil
}
