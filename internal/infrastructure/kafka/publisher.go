package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventPublisher mirrors every display event to a Kafka topic for
// downstream analytics. The notification channel name becomes the message
// key so consumers can partition campaign and price traffic.
type EventPublisher struct {
	writer *kafka.Writer
}

func NewEventPublisher(brokers []string, topic string) *EventPublisher {
	return &EventPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  5,
			WriteTimeout: 5 * time.Second,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *EventPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(channel),
		Value: payload,
		Time:  time.Now(),
	})
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
