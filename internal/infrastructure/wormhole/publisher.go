package wormhole

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/metrics"
	"github.com/fastfill-network/matching-engine/pkg/vaa"
	log "github.com/sirupsen/logrus"
)

type messageKey struct {
	emitter  domain.Address
	sequence uint64
}

// Publisher is the messaging layer endpoint of the engine's chain. It
// assigns per-emitter sequences to outbound messages and keeps their
// serialized VAAs so that relayers can fetch and redeem them.
type Publisher struct {
	lock *sync.RWMutex

	chain     domain.ChainID
	clock     ports.SlotClock
	guardian  *ecdsa.PrivateKey
	forwarder ports.EventPublisher

	sequences map[domain.Address]uint64
	messages  map[messageKey][]byte
}

// Option ...
type Option func(p *Publisher)

// WithGuardianKey makes the publisher sign every VAA with the given key.
func WithGuardianKey(key *ecdsa.PrivateKey) Option {
	return func(p *Publisher) {
		p.guardian = key
	}
}

// WithForwarder forwards every serialized VAA to the given publisher, on the
// topic named after the hex emitter address. Forwarding is best effort.
func WithForwarder(forwarder ports.EventPublisher) Option {
	return func(p *Publisher) {
		p.forwarder = forwarder
	}
}

// NewPublisher returns a publisher emitting messages from the given chain,
// timestamped with the given clock.
func NewPublisher(
	chain domain.ChainID, clock ports.SlotClock, opts ...Option,
) (*Publisher, error) {
	if chain == 0 {
		return nil, fmt.Errorf("missing chain")
	}
	if clock == nil {
		return nil, fmt.Errorf("missing clock")
	}

	p := &Publisher{
		lock:      &sync.RWMutex{},
		chain:     chain,
		clock:     clock,
		sequences: make(map[domain.Address]uint64),
		messages:  make(map[messageKey][]byte),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Publisher) PublishMessage(
	_ context.Context, msg ports.OutboundMessage,
) (uint64, error) {
	if domain.IsZeroAddress(msg.Emitter) {
		return 0, fmt.Errorf("missing emitter")
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	sequence := p.sequences[msg.Emitter]
	v := &vaa.VAA{
		Version:          vaa.SupportedVersion,
		Timestamp:        uint32(p.clock.Now().Unix()),
		Nonce:            msg.Nonce,
		EmitterChain:     p.chain,
		EmitterAddress:   msg.Emitter,
		Sequence:         sequence,
		ConsistencyLevel: msg.ConsistencyLevel,
		Payload:          msg.Payload,
	}
	if p.guardian != nil {
		digest := v.Digest()
		sig, err := crypto.Sign(digest[:], p.guardian)
		if err != nil {
			return 0, fmt.Errorf("failed to sign vaa: %w", err)
		}
		var signature vaa.Signature
		copy(signature.Signature[:], sig)
		v.Signatures = []vaa.Signature{signature}
	}

	key := messageKey{msg.Emitter, sequence}
	serialized := v.Serialize()
	p.messages[key] = serialized
	p.sequences[msg.Emitter] = sequence + 1
	metrics.MessagesPublished.WithLabelValues(msg.Emitter.String()).Inc()

	if p.forwarder != nil {
		if err := p.forwarder.Publish(msg.Emitter.String(), serialized); err != nil {
			log.WithError(err).Warnf(
				"failed to forward message %d of emitter %s", sequence, msg.Emitter,
			)
		}
	}

	log.Debugf(
		"published message %s with sequence %d of emitter %s",
		msg.Key, sequence, msg.Emitter,
	)
	return sequence, nil
}

func (p *Publisher) GetSignedMessage(
	_ context.Context, emitter domain.Address, sequence uint64,
) ([]byte, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.messages[messageKey{emitter, sequence}], nil
}

// NextSequence returns the sequence the next message of the emitter gets.
func (p *Publisher) NextSequence(emitter domain.Address) uint64 {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.sequences[emitter]
}
