package application

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/ports"
)

// PubSubService defines the methods of the application layer to manage the
// webhooks notified of engine events.
type PubSubService interface {
	AddWebhook(ctx context.Context, topic, endpoint, secret string) (string, error)
	RemoveWebhook(ctx context.Context, id string) error
	ListWebhooks(ctx context.Context, topic string) ([]ports.Subscription, error)
}

type pubsubService struct {
	pubsub ports.PubSub
}

// NewPubSubService ...
func NewPubSubService(pubsub ports.PubSub) PubSubService {
	return &pubsubService{pubsub}
}

func (s *pubsubService) AddWebhook(
	_ context.Context, topic, endpoint, secret string,
) (string, error) {
	if s.pubsub == nil {
		return "", ErrPubSubNotInitialized
	}
	if _, ok := Topics[topic]; !ok {
		return "", ErrUnknownTopic
	}
	return s.pubsub.Subscribe(topic, endpoint, secret)
}

func (s *pubsubService) RemoveWebhook(_ context.Context, id string) error {
	if s.pubsub == nil {
		return ErrPubSubNotInitialized
	}
	return s.pubsub.Unsubscribe(id)
}

func (s *pubsubService) ListWebhooks(
	_ context.Context, topic string,
) ([]ports.Subscription, error) {
	if s.pubsub == nil {
		return nil, ErrPubSubNotInitialized
	}
	if _, ok := Topics[topic]; !ok {
		return nil, ErrUnknownTopic
	}
	return s.pubsub.ListSubscriptionsForTopic(topic), nil
}
