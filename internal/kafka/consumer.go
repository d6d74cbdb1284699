package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"ms-conference/internal/events"
)

type Logger interface {
	Debug(category, message string)
	Info(category, message string)
	Warn(category, message string)
	Error(category, message string)
}

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// HandlerFunc applies one decoded event. A non-nil error means redeliver.
type HandlerFunc func(ctx context.Context, evt events.Event) error

type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Consumer delivers events at least once: an offset is committed only after
// the handler succeeded or the message was found undecodable.
type Consumer struct {
	reader MessageReader
	retry  RetryPolicy
	logger Logger
}

// NewConsumer creates a consumer-group reader for the given topic
func NewConsumer(brokers []string, topic, groupID string, retry RetryPolicy, logger Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return NewConsumerWithReader(reader, retry, logger)
}

func NewConsumerWithReader(reader MessageReader, retry RetryPolicy, logger Logger) *Consumer {
	return &Consumer{reader: reader, retry: retry, logger: logger}
}

// Start consumes until ctx is cancelled. It returns nil on cancellation.
func (c *Consumer) Start(ctx context.Context, handle HandlerFunc) error {
	c.logger.Info("KAFKA", "Consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("KAFKA", "Consumer stopped")
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := c.process(ctx, msg, handle); err != nil {
			if ctx.Err() != nil {
				c.logger.Info("KAFKA", "Consumer stopped before committing the current message")
				return nil
			}
			return err
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message, handle HandlerFunc) error {
	evt, err := events.Decode(msg.Value)
	if err != nil {
		c.logger.Error("KAFKA", fmt.Sprintf("Skipping undecodable message at %s/%d offset %d: %v", msg.Topic, msg.Partition, msg.Offset, err))
		return c.reader.CommitMessages(ctx, msg)
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := handle(ctx, evt)
		if err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("[%s] %s - attempt %d failed: %v", evt.Kind(), evt.AggregateID(), attempt, err))
		}
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		return err
	}

	c.logger.Debug("KAFKA", fmt.Sprintf("[%s] %s - committed offset %d", evt.Kind(), evt.AggregateID(), msg.Offset))
	return c.reader.CommitMessages(ctx, msg)
}

func (c *Consumer) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.retry.InitialInterval > 0 {
		b.InitialInterval = c.retry.InitialInterval
	}
	if c.retry.MaxInterval > 0 {
		b.MaxInterval = c.retry.MaxInterval
	}
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Close gracefully shuts down the Kafka reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
