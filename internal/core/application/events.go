package application

import (
	"encoding/json"
	"time"

	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	TopicAuctionStarted        = "AUCTION_STARTED"
	TopicOfferImproved         = "OFFER_IMPROVED"
	TopicOrderExecuted         = "ORDER_EXECUTED"
	TopicOrderResponsePrepared = "ORDER_RESPONSE_PREPARED"
	TopicAuctionSettled        = "AUCTION_SETTLED"
	TopicFastFillRedeemed      = "FAST_FILL_REDEEMED"
	TopicProposalCreated       = "PROPOSAL_CREATED"
	TopicProposalEnacted       = "PROPOSAL_ENACTED"
	TopicProposalClosed        = "PROPOSAL_CLOSED"
	TopicCustodianUpdated      = "CUSTODIAN_UPDATED"
	TopicRouterEndpointUpdated = "ROUTER_ENDPOINT_UPDATED"
)

// Topics lists every topic a webhook can subscribe to.
var Topics = map[string]struct{}{
	ports.AnyTopic:             {},
	TopicAuctionStarted:        {},
	TopicOfferImproved:         {},
	TopicOrderExecuted:         {},
	TopicOrderResponsePrepared: {},
	TopicAuctionSettled:        {},
	TopicFastFillRedeemed:      {},
	TopicProposalCreated:       {},
	TopicProposalEnacted:       {},
	TopicProposalClosed:        {},
	TopicCustodianUpdated:      {},
	TopicRouterEndpointUpdated: {},
}

// Event is the envelope of every message published by the engine.
type Event struct {
	ID        string                 `json:"id"`
	Topic     string                 `json:"topic"`
	Slot      uint64                 `json:"slot"`
	Timestamp int64                  `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}

// eventBus forwards committed engine events to every publisher. Failures
// are logged and never fail the operation that produced the event.
type eventBus struct {
	publishers []ports.EventPublisher
}

func newEventBus(publishers []ports.EventPublisher) *eventBus {
	return &eventBus{publishers}
}

func (b *eventBus) publish(
	topic string, slot uint64, now time.Time, payload map[string]interface{},
) {
	if len(b.publishers) <= 0 {
		return
	}

	event := Event{
		ID:        uuid.New().String(),
		Topic:     topic,
		Slot:      slot,
		Timestamp: now.Unix(),
		Payload:   payload,
	}
	message, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Warnf("failed to serialize %s event", topic)
		return
	}

	for _, p := range b.publishers {
		if err := p.Publish(topic, message); err != nil {
			log.WithError(err).Warnf("failed to publish %s event", topic)
		}
	}
}
