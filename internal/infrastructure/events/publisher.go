package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domainUser "restaurant-review-api/internal/domain/user"
	"restaurant-review-api/internal/logger"

	"go.uber.org/zap"
)

const (
	eventQoS       byte = 1
	publishTimeout      = 5 * time.Second
)

// Broker is the subset of the MQTT client used for publishing.
type Broker interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher sends auth events to {prefix}/{event type}.
type MQTTPublisher struct {
	broker Broker
	prefix string
}

func NewMQTTPublisher(broker Broker, topicPrefix string) *MQTTPublisher {
	return &MQTTPublisher{broker: broker, prefix: topicPrefix}
}

func (p *MQTTPublisher) Topic(t domainUser.EventType) string {
	if p.prefix == "" {
		return string(t)
	}
	return p.prefix + "/" + string(t)
}

func (p *MQTTPublisher) Publish(ctx context.Context, event domainUser.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	topic := p.Topic(event.Type)
	if err := p.broker.Publish(ctx, topic, eventQoS, false, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	logger.Debug("Auth event published",
		zap.String("topic", topic),
		zap.Uint("user_id", event.UserID),
	)
	return nil
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domainUser.Event) error { return nil }
