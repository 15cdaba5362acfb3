// Package kafka publishes merged beach readings to a topic so downstream
// consumers (alerting, trend analysis) see every aggregation pass without
// polling the database.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/beachhui/conditions/internal/domain"
)

// ReadingEvent is the published shape: the beach identity plus the full
// merged conditions object.
type ReadingEvent struct {
	BeachSlug   string            `json:"beachSlug"`
	BeachName   string            `json:"beachName"`
	Island      string            `json:"island"`
	Conditions  domain.Conditions `json:"conditions"`
	PublishedAt time.Time         `json:"publishedAt"`
}

// Publisher produces reading events to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the readings topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and sends one reading event, keyed by beach slug so
// a beach's readings stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, event ReadingEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a ReadingEvent into a Kafka message.
func serializeToMessage(event ReadingEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize reading event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.BeachSlug),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "island", Value: []byte(event.Island)},
			{Key: "status", Value: []byte(event.Conditions.Status)},
			{Key: "published_at", Value: []byte(event.PublishedAt.Format(time.RFC3339))},
		},
	}, nil
}
