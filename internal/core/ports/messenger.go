package ports

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

// OutboundMessage is a message published by the engine through the
// messaging layer.
type OutboundMessage struct {
	// Key identifies the message, derived from payer and payer sequence.
	Key              domain.Address
	Payer            domain.Address
	Emitter          domain.Address
	Nonce            uint32
	ConsistencyLevel uint8
	Payload          []byte
}

// MessagePublisher posts messages to the messaging layer.
type MessagePublisher interface {
	// PublishMessage returns the emitter sequence assigned to the message.
	PublishMessage(ctx context.Context, msg OutboundMessage) (uint64, error)
	// GetSignedMessage returns the serialized VAA of a published message, or
	// a nil slice if unknown.
	GetSignedMessage(
		ctx context.Context, emitter domain.Address, sequence uint64,
	) ([]byte, error)
}
