package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
	"github.com/capitalize-ai/telegram-storefront/pkg/metrics"
)

const (
	// StreamName is the name of the storefront events stream.
	StreamName = "STOREFRONT"

	// SubjectPrefix is the prefix for all storefront subjects.
	SubjectPrefix = "storefront"
)

// Subject returns the subject an event type is published on.
func Subject(eventType model.EventType) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, eventType)
}

// EventStream publishes domain events to JetStream.
type EventStream struct {
	client *Client
	logger *logger.Logger
}

// NewEventStream creates a new event stream publisher.
func NewEventStream(client *Client, log *logger.Logger) *EventStream {
	return &EventStream{client: client, logger: log.Named("events")}
}

// EnsureStream ensures the storefront stream exists with proper configuration.
func (s *EventStream) EnsureStream(ctx context.Context) error {
	js := s.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Duplicates:  10 * time.Minute,
		Description: "Storefront orders and chat events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// Publish publishes an event. The id is used as the JetStream message id so
// a retried publish of the same event is stored once.
func (s *EventStream) Publish(ctx context.Context, eventType model.EventType, id string, payload interface{}) error {
	subject := Subject(eventType)

	data, err := json.Marshal(payload)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(subject, "error").Inc()
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := s.client.JetStream().Publish(ctx, subject, data, jetstream.WithMsgID(id))
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(subject, "error").Inc()
		return fmt.Errorf("failed to publish event: %w", err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(subject, "ok").Inc()
	s.logger.Debug("event published",
		zap.String("subject", subject),
		zap.String("event_id", id),
		zap.Uint64("sequence", ack.Sequence),
	)
	return nil
}

// Noop discards events. It is used when NATS is not configured.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(ctx context.Context, eventType model.EventType, id string, payload interface{}) error {
	return nil
}
