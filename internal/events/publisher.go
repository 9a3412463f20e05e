package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type EventType string

const (
	SubscriptionCreated     EventType = "subscription_created"
	SubscriptionCancelled   EventType = "subscription_cancelled"
	SubscriptionReactivated EventType = "subscription_reactivated"
	SubscriptionExpired     EventType = "subscription_expired"
	SubscriptionsExtended   EventType = "subscriptions_extended"
)

// LifecycleEvent is the audit record emitted after a committed state change.
type LifecycleEvent struct {
	Type           EventType `json:"type"`
	SubscriptionID string    `json:"subscription_id,omitempty"`
	CustomerID     string    `json:"customer_id"`
	PlanID         string    `json:"plan_id,omitempty"`
	TransactionID  string    `json:"transaction_id,omitempty"`
	Status         string    `json:"status,omitempty"`
	ExpiresAt      int64     `json:"expires_at,omitempty"`
	OccurredAt     int64     `json:"occurred_at"`
}

// key keeps all events of one subscription on one partition.
func (e LifecycleEvent) key() []byte {
	if e.SubscriptionID != "" {
		return []byte(e.SubscriptionID)
	}
	return []byte(e.CustomerID)
}

type Publisher interface {
	Publish(ctx context.Context, evt LifecycleEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewPublisher returns a Kafka publisher, or a no-op one when no brokers are configured.
func NewPublisher(brokers []string, topic string, log *zap.Logger) Publisher {
	if len(brokers) == 0 {
		log.Info("Kafka brokers not configured, lifecycle events are disabled")
		return NoopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	log.Info("Kafka producer initialized", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return &kafkaPublisher{writer: writer, log: log.Named("events")}
}

func (k *kafkaPublisher) Publish(ctx context.Context, evt LifecycleEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("kafka: failed to marshal event: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	err = k.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   evt.key(),
		Value: value,
		Time:  time.Unix(evt.OccurredAt, 0),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("kafka: write timeout: %w", err)
		}
		return fmt.Errorf("kafka: failed to write message: %w", err)
	}

	k.log.Debug("Published lifecycle event", zap.String("type", string(evt.Type)), zap.String("key", string(evt.key())))
	return nil
}

func (k *kafkaPublisher) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("kafka: failed to close writer: %w", err)
	}
	return nil
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, LifecycleEvent) error { return nil }
func (NoopPublisher) Close() error                                  { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []LifecycleEvent
}

func (r *Recorder) Publish(_ context.Context, evt LifecycleEvent) error {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []LifecycleEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LifecycleEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []EventType {
	var out []EventType
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}
