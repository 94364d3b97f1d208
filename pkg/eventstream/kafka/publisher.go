// Package kafka provides a Kafka-backed eventstream publisher using
// segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/quillardco/sensei/pkg/eventstream"
)

// Config holds the Kafka connection settings for the publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic is the topic turn events are written to.
	Topic string
}

// Publisher writes turn events to a Kafka topic. Events for the same session
// share a message key so a session's turns land on one partition in order.
type Publisher struct {
	writer *kafkago.Writer
}

// NewPublisher creates a Kafka publisher from the given config.
func NewPublisher(config Config) (*Publisher, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if config.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(config.Brokers...),
		Topic:    config.Topic,
		Balancer: &kafkago.Hash{},
	}

	return &Publisher{writer: writer}, nil
}

// PublishTurn serializes the event as JSON and writes it keyed by
// (user, session).
func (p *Publisher) PublishTurn(ctx context.Context, event *eventstream.TurnPersistedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling turn event: %w", err)
	}

	message := kafkago.Message{
		Key:   []byte(event.Turn.UserID + "/" + event.Turn.SessionID),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("writing turn event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
