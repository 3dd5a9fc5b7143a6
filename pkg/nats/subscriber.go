package nats

import (
	"context"
	"fmt"

	"mindforge-be/internal/pkg/logger"
	"mindforge-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler processes one decoded event. A returned error redelivers it.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber listens for events on durable JetStream consumers.
type Subscriber struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger logger.ILogger
	subs   []jetstream.ConsumeContext
}

func NewSubscriber(url string, log logger.ILogger) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	if err := ensureStream(context.Background(), js); err != nil {
		log.Warn("NATS", "Failed to ensure stream", map[string]interface{}{
			"stream": StreamName, "error": err.Error(),
		})
	}
	return &Subscriber{nc: nc, js: js, logger: log}, nil
}

// Subscribe registers a handler on a durable consumer so nothing is lost
// across restarts.
func (s *Subscriber) Subscribe(ctx context.Context, subject, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    5,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		dispatch(context.Background(), msg, handler, s.logger)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	s.subs = append(s.subs, cc)

	s.logger.Info("NATS", "Subscribed", map[string]interface{}{
		"subject": subject, "durable": durableName,
	})
	return nil
}

// message is the part of jetstream.Msg dispatch needs.
type message interface {
	Subject() string
	Data() []byte
	Ack() error
	Nak() error
	Term() error
}

// dispatch decodes and handles one message. Undecodable payloads are
// terminated since redelivery cannot fix them.
func dispatch(ctx context.Context, msg message, handler EventHandler, log logger.ILogger) {
	event, err := events.Unmarshal(msg.Data())
	if err != nil {
		log.Error("NATS", "Dropping malformed event", map[string]interface{}{
			"subject": msg.Subject(), "error": err.Error(),
		})
		_ = msg.Term()
		return
	}

	if err := handler(ctx, event); err != nil {
		log.Warn("NATS", "Handler failed, will retry", map[string]interface{}{
			"subject": msg.Subject(), "event_type": event.EventType(), "error": err.Error(),
		})
		_ = msg.Nak()
		return
	}
	_ = msg.Ack()
}

func (s *Subscriber) Close() {
	for _, cc := range s.subs {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
