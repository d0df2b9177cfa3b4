package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/config"
	"github.com/segmentio/kafka-go"
)

// Publisher delivers envelopes keyed by an aggregate reference.
type Publisher interface {
	Publish(ctx context.Context, key string, env Envelope) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes envelopes to a single topic. Messages for the same key
// land on the same partition so consumers see an order's events in sequence.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher builds a writer from config. Call Enabled on the config first.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.OrdersTopic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			Async:                  cfg.Async,
			AllowAutoTopicCreation: false,
			WriteTimeout:           5 * time.Second,
			Transport:              &kafka.Transport{ClientID: cfg.ClientID},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
			{Key: "event_id", Value: []byte(env.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", env.EventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, Envelope) error { return nil }
func (NoopPublisher) Close() error                                     { return nil }
