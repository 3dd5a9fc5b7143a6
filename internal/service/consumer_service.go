package service

import (
	"context"

	"mindforge-be/internal/pkg/logger"
	"mindforge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const maxExportAttempts = 3

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process bus and exports every domain event.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	exporter   events.Publisher
	logger     logger.ILogger

	// redelivery count per message id; only the consume goroutine touches it
	attempts map[string]int
}

// NewConsumerService wires the bus to an exporter. A nil exporter turns
// export off; events are still acknowledged.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	exporter events.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		exporter:   exporter,
		logger:     log,
		attempts:   make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("Consumer", "Dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID, "error": err.Error(),
		})
		msg.Ack() // redelivery cannot fix it
		return
	}

	if cs.exporter == nil {
		cs.logger.Debug("Consumer", "Export disabled, event not forwarded", map[string]interface{}{
			"event_type": event.EventType(),
		})
		msg.Ack()
		return
	}

	if err := cs.exporter.Publish(ctx, event); err != nil {
		cs.attempts[msg.UUID]++
		if cs.attempts[msg.UUID] >= maxExportAttempts {
			delete(cs.attempts, msg.UUID)
			cs.logger.Error("Consumer", "Giving up exporting event", map[string]interface{}{
				"event_type": event.EventType(), "attempts": maxExportAttempts, "error": err.Error(),
			})
			msg.Ack()
			return
		}
		cs.logger.Warn("Consumer", "Failed to export event", map[string]interface{}{
			"event_type": event.EventType(), "error": err.Error(),
		})
		msg.Nack()
		return
	}
	delete(cs.attempts, msg.UUID)

	cs.logger.Debug("Consumer", "Event exported", map[string]interface{}{"event_type": event.EventType()})
	msg.Ack()
}
