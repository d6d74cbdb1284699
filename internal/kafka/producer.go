package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"

	"ms-conference/internal/events"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	Writer MessageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
	return &Publisher{Writer: writer}
}

// Publish encodes the events and writes them keyed by aggregate id, so every
// event of one conference lands on the same partition in order.
func (p *Publisher) Publish(ctx context.Context, evts ...events.Event) error {
	msgs := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		value, err := events.Encode(evt)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: value,
		})
	}
	return p.Writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.Writer.Close()
}
