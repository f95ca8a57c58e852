package wormhole_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	slotclock "github.com/fastfill-network/matching-engine/internal/infrastructure/clock"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/wormhole"
	"github.com/fastfill-network/matching-engine/pkg/vaa"
	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"
)

const chain = domain.ChainID(1)

type forwarder struct {
	lock     sync.Mutex
	messages map[string][][]byte
	fail     bool
}

func (f *forwarder) Publish(topic string, message []byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.fail {
		return fmt.Errorf("forwarder down")
	}
	if f.messages == nil {
		f.messages = make(map[string][][]byte)
	}
	f.messages[topic] = append(f.messages[topic], message)
	return nil
}

func newSlotClock(t *testing.T) (*clock.Mock, ports.SlotClock) {
	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))
	slotClock, err := slotclock.NewSlotClock(mock, mock.Now(), 400*time.Millisecond)
	require.NoError(t, err)
	return mock, slotClock
}

func TestPublisher(t *testing.T) {
	mock, slotClock := newSlotClock(t)
	guardian, err := crypto.GenerateKey()
	require.NoError(t, err)
	fw := &forwarder{}

	publisher, err := wormhole.NewPublisher(
		chain, slotClock, wormhole.WithGuardianKey(guardian), wormhole.WithForwarder(fw),
	)
	require.NoError(t, err)

	emitter := domain.EmitterAddress(domain.Address{1})
	otherEmitter := domain.EmitterAddress(domain.Address{2})
	payer := domain.Address{3}
	ctx := context.Background()

	for i := uint64(0); i < 3; i++ {
		mock.Add(time.Second)
		seq, err := publisher.PublishMessage(ctx, ports.OutboundMessage{
			Key:              domain.CoreMessageAddress(payer, i),
			Payer:            payer,
			Emitter:          emitter,
			ConsistencyLevel: 1,
			Payload:          []byte{byte(i)},
		})
		require.NoError(t, err)
		require.Equal(t, i, seq)
	}
	require.Equal(t, uint64(3), publisher.NextSequence(emitter))

	seq, err := publisher.PublishMessage(ctx, ports.OutboundMessage{
		Key:     domain.CoreMessageAddress(payer, 3),
		Payer:   payer,
		Emitter: otherEmitter,
		Payload: []byte{0xff},
	})
	require.NoError(t, err)
	require.Zero(t, seq)

	raw, err := publisher.GetSignedMessage(ctx, emitter, 2)
	require.NoError(t, err)
	require.NotNil(t, raw)

	v, err := vaa.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, chain, v.EmitterChain)
	require.Equal(t, emitter, v.EmitterAddress)
	require.Equal(t, uint64(2), v.Sequence)
	require.Equal(t, uint8(1), v.ConsistencyLevel)
	require.Equal(t, []byte{2}, v.Payload)
	require.Equal(t, uint32(mock.Now().Unix()-1), v.Timestamp)
	require.Len(t, v.Signatures, 1)

	digest := v.Digest()
	pubkey, err := crypto.SigToPub(digest[:], v.Signatures[0].Signature[:])
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(guardian.PublicKey), crypto.PubkeyToAddress(*pubkey))

	raw, err = publisher.GetSignedMessage(ctx, emitter, 3)
	require.NoError(t, err)
	require.Nil(t, raw)

	require.Len(t, fw.messages[emitter.String()], 3)
	require.Len(t, fw.messages[otherEmitter.String()], 1)
}

func TestPublisherForwarderFailure(t *testing.T) {
	_, slotClock := newSlotClock(t)
	publisher, err := wormhole.NewPublisher(
		chain, slotClock, wormhole.WithForwarder(&forwarder{fail: true}),
	)
	require.NoError(t, err)

	emitter := domain.Address{1}
	seq, err := publisher.PublishMessage(context.Background(), ports.OutboundMessage{
		Emitter: emitter,
		Payload: []byte{1},
	})
	require.NoError(t, err)
	require.Zero(t, seq)

	raw, err := publisher.GetSignedMessage(context.Background(), emitter, 0)
	require.NoError(t, err)
	v, err := vaa.Parse(raw)
	require.NoError(t, err)
	require.Empty(t, v.Signatures)
}

func TestNewPublisherFailing(t *testing.T) {
	_, slotClock := newSlotClock(t)
	tests := []struct {
		name  string
		chain domain.ChainID
		clock ports.SlotClock
	}{
		{"missing_chain", 0, slotClock},
		{"missing_clock", chain, nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			publisher, err := wormhole.NewPublisher(tt.chain, tt.clock)
			require.Error(t, err)
			require.Nil(t, publisher)
		})
	}
}
