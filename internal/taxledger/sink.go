package taxledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
)

const publishTimeout = 10 * time.Second

// Sink delivers purchase events to the tax ledger pipeline.
type Sink interface {
	PublishPurchase(ctx context.Context, event PurchaseEvent) error
}

// PubSubSink publishes purchase events to a Pub/Sub topic. Callers treat the
// channel as fire-and-forget: errors are returned for logging, never for
// rollback.
type PubSubSink struct {
	publisher *gcppubsub.Publisher
	logg      *logger.Logger
}

// NewPubSubSink wires a sink to an existing publisher handle.
func NewPubSubSink(publisher *gcppubsub.Publisher, logg *logger.Logger) (*PubSubSink, error) {
	if publisher == nil {
		return nil, fmt.Errorf("tax ledger publisher required")
	}
	return &PubSubSink{publisher: publisher, logg: logg}, nil
}

func (s *PubSubSink) PublishPurchase(ctx context.Context, event PurchaseEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal purchase event: %w", err)
	}

	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":   event.EventID,
			"event_type": string(event.EventType),
			"store_id":   event.StoreID,
			"reference":  event.Reference,
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	result := s.publisher.Publish(publishCtx, msg)
	if result == nil {
		return fmt.Errorf("tax ledger publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish purchase event: %w", err)
	}

	if s.logg != nil {
		fields := map[string]any{
			"event_id":  event.EventID,
			"reference": event.Reference,
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "tax ledger purchase event published")
	}
	return nil
}

// NoopSink drops every event. Used when no topic is configured.
type NoopSink struct{}

func (NoopSink) PublishPurchase(ctx context.Context, event PurchaseEvent) error {
	return nil
}
