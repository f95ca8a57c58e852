package application_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/cctp"
	slotclock "github.com/fastfill-network/matching-engine/internal/infrastructure/clock"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/storage/db/inmemory"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/wormhole"
	"github.com/fastfill-network/matching-engine/pkg/message"
	"github.com/fastfill-network/matching-engine/pkg/vaa"
	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"
)

const (
	localChain  = domain.ChainID(1)
	targetChain = domain.ChainID(2)
	sourceChain = domain.ChainID(23)

	localDomain  = uint32(5)
	targetDomain = uint32(0)
	sourceDomain = uint32(3)

	slotDuration = 400 * time.Millisecond

	amountIn       = uint64(50_000_000_000)
	maxFee         = uint64(10_000)
	initAuctionFee = uint64(100)
	initialFunds   = uint64(200_000_000_000)
)

var (
	// Parameters of the reference scenario.
	testParams = domain.AuctionParameters{
		UserPenaltyRewardBps: 250_000,
		InitialPenaltyBps:    250_000,
		Duration:             5,
		GracePeriod:          10,
		PenaltyPeriod:        20,
		MinOfferDeltaBps:     50_000,
		SecurityDepositBase:  1_000_000,
		SecurityDepositBps:   5_000,
	}
	// maxFee + 1_000_000 + amountIn * 0.5%
	securityDeposit = uint64(251_010_000)
	stake           = amountIn + securityDeposit

	burnToken = domain.Address{0xbb}
)

type eventRecorder struct {
	lock   sync.Mutex
	events []application.Event
}

func (r *eventRecorder) Publish(topic string, msg []byte) error {
	var event application.Event
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) topics() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	topics := make([]string, 0, len(r.events))
	for _, e := range r.events {
		topics = append(topics, e.Topic)
	}
	return topics
}

func (r *eventRecorder) last() application.Event {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.events[len(r.events)-1]
}

func (r *eventRecorder) reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = nil
}

// testEngine runs the engine services against the in-memory storage, a
// mocked clock, a local CCTP transmitter and an in-process messaging layer.
type testEngine struct {
	t   *testing.T
	ctx context.Context

	repoManager ports.RepoManager
	clock       *clock.Mock
	slotClock   ports.SlotClock
	transmitter *cctp.Transmitter
	attesters   []*ecdsa.PrivateKey
	publisher   *wormhole.Publisher
	events      *eventRecorder

	admin       application.AdminService
	auctions    application.AuctionService
	settlement  application.SettlementService
	tokenRouter application.TokenRouterService
	accounts    application.AccountService

	owner                domain.Address
	assistant            domain.Address
	feeRecipientToken    domain.Address
	engineProgramID      domain.Address
	tokenRouterProgramID domain.Address
	sourceRouter         domain.Address
	targetRouter         domain.Address
	targetMintRecipient  domain.Address

	nextSequence  uint64
	nextCctpNonce uint64
}

// testOrder is a fast order emitted by the source router together with
// everything needed to settle it.
type testOrder struct {
	order     *message.FastMarketOrder
	fastVaa   []byte
	hash      domain.Hash
	baseFee   uint64
	cctpNonce uint64
	prepare   application.PrepareOrderResponseArgs
}

// newTestEngine returns an initialized engine with three endpoints: a CCTP
// source chain, a CCTP target chain and the local chain.
func newTestEngine(t *testing.T) *testEngine {
	e := newUninitializedTestEngine(t)

	_, err := e.accounts.OpenTokenAccount(
		e.ctx, e.owner, application.OpenTokenAccountArgs{Address: e.feeRecipientToken},
	)
	require.NoError(t, err)
	err = e.admin.Initialize(e.ctx, e.owner, application.InitializeArgs{
		OwnerAssistant:    e.assistant,
		FeeRecipientToken: e.feeRecipientToken,
		AuctionParameters: testParams,
	})
	require.NoError(t, err)

	endpoints := []application.RouterEndpointArgs{
		{
			Chain:         sourceChain,
			Address:       e.sourceRouter,
			MintRecipient: randomAddress(),
			Protocol:      domain.CctpProtocol(sourceDomain),
		},
		{
			Chain:         targetChain,
			Address:       e.targetRouter,
			MintRecipient: e.targetMintRecipient,
			Protocol:      domain.CctpProtocol(targetDomain),
		},
		{
			Chain:         localChain,
			Address:       e.tokenRouterProgramID,
			MintRecipient: domain.LocalCustodyToken(e.tokenRouterProgramID),
			Protocol:      domain.LocalProtocol(e.tokenRouterProgramID),
		},
	}
	for _, args := range endpoints {
		_, err := e.admin.AddRouterEndpoint(e.ctx, e.assistant, args)
		require.NoError(t, err)
	}
	e.events.reset()
	return e
}

func newUninitializedTestEngine(t *testing.T) *testEngine {
	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))
	slotClock, err := slotclock.NewSlotClock(mock, mock.Now(), slotDuration)
	require.NoError(t, err)

	attesters := make([]*ecdsa.PrivateKey, 0, 2)
	attesterAddresses := make([]common.Address, 0, 2)
	for i := 0; i < 2; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		attesters = append(attesters, key)
		attesterAddresses = append(attesterAddresses, crypto.PubkeyToAddress(key.PublicKey))
	}
	transmitter, err := cctp.NewTransmitter(localDomain, burnToken, attesterAddresses, 2)
	require.NoError(t, err)
	publisher, err := wormhole.NewPublisher(localChain, slotClock)
	require.NoError(t, err)

	events := &eventRecorder{}
	e := &testEngine{
		t:                    t,
		ctx:                  context.Background(),
		repoManager:          inmemory.NewRepoManager(),
		clock:                mock,
		slotClock:            slotClock,
		transmitter:          transmitter,
		attesters:            attesters,
		publisher:            publisher,
		events:               events,
		owner:                randomAddress(),
		assistant:            randomAddress(),
		feeRecipientToken:    randomAddress(),
		engineProgramID:      randomAddress(),
		tokenRouterProgramID: randomAddress(),
		sourceRouter:         randomAddress(),
		targetRouter:         randomAddress(),
		targetMintRecipient:  randomAddress(),
		nextSequence:         10,
	}

	cfg := &application.Config{
		RepoManager:          e.repoManager,
		Clock:                slotClock,
		CctpTransmitter:      transmitter,
		MessagePublisher:     publisher,
		EventPublishers:      []ports.EventPublisher{events},
		LocalChain:           localChain,
		UpgradeAuthority:     e.owner,
		EngineProgramID:      e.engineProgramID,
		TokenRouterProgramID: e.tokenRouterProgramID,
		EnableFaucet:         true,
	}
	require.NoError(t, cfg.Validate())

	e.admin = cfg.AdminService()
	e.auctions = cfg.AuctionService()
	e.settlement = cfg.SettlementService()
	e.tokenRouter = cfg.TokenRouterService()
	e.accounts = cfg.AccountService()
	return e
}

func (e *testEngine) advanceSlots(n uint64) {
	e.clock.Add(time.Duration(n) * slotDuration)
}

// newFundedAccount opens a token account owned by signer and mints the
// initial funds into it.
func (e *testEngine) newFundedAccount(signer domain.Address) domain.Address {
	address := randomAddress()
	_, err := e.accounts.OpenTokenAccount(
		e.ctx, signer, application.OpenTokenAccountArgs{Address: address},
	)
	require.NoError(e.t, err)
	err = e.accounts.Mint(e.ctx, e.owner, application.MintArgs{
		To: address, Amount: initialFunds,
	})
	require.NoError(e.t, err)
	return address
}

func (e *testEngine) newAccount(signer domain.Address) domain.Address {
	address := randomAddress()
	_, err := e.accounts.OpenTokenAccount(
		e.ctx, signer, application.OpenTokenAccountArgs{Address: address},
	)
	require.NoError(e.t, err)
	return address
}

func (e *testEngine) balance(address domain.Address) uint64 {
	account, err := e.accounts.GetTokenAccount(e.ctx, address)
	require.NoError(e.t, err)
	return account.Balance
}

func (e *testEngine) requireClosed(address domain.Address) {
	_, err := e.accounts.GetTokenAccount(e.ctx, address)
	require.ErrorIs(e.t, err, domain.ErrTokenAccountNotFound)
}

// newOrder emits a fast order towards the given chain from the source
// router. The slow transfer of the order is emitted right before it.
func (e *testEngine) newOrder(target domain.ChainID, baseFee uint64) *testOrder {
	finalizedSequence := e.nextSequence
	e.nextSequence += 2
	nonce := e.nextCctpNonce
	e.nextCctpNonce++
	timestamp := uint32(e.clock.Now().Unix())

	order := &message.FastMarketOrder{
		AmountIn:       amountIn,
		TargetChain:    target,
		Redeemer:       randomAddress(),
		Sender:         randomAddress(),
		RefundAddress:  randomAddress(),
		MaxFee:         maxFee,
		InitAuctionFee: initAuctionFee,
	}
	fast := &vaa.VAA{
		Version:          vaa.SupportedVersion,
		Timestamp:        timestamp,
		EmitterChain:     sourceChain,
		EmitterAddress:   e.sourceRouter,
		Sequence:         finalizedSequence + 1,
		ConsistencyLevel: 200,
		Payload:          order.Serialize(),
	}

	mintRecipient := domain.CctpMintRecipient(e.engineProgramID)
	slowOrderResponse := &message.SlowOrderResponse{BaseFee: baseFee}
	deposit := &message.Deposit{
		TokenAddress:          burnToken,
		Amount:                amountIn,
		SourceCctpDomain:      sourceDomain,
		DestinationCctpDomain: localDomain,
		CctpNonce:             nonce,
		BurnSource:            randomAddress(),
		MintRecipient:         mintRecipient,
		Payload:               slowOrderResponse.Serialize(),
	}
	rawDeposit, err := deposit.Serialize()
	require.NoError(e.t, err)
	finalized := &vaa.VAA{
		Version:          vaa.SupportedVersion,
		Timestamp:        timestamp,
		EmitterChain:     sourceChain,
		EmitterAddress:   e.sourceRouter,
		Sequence:         finalizedSequence,
		ConsistencyLevel: 1,
		Payload:          rawDeposit,
	}
	rawCctpMessage, attestation := e.attestedMessage(nonce, amountIn, mintRecipient)

	return &testOrder{
		order:     order,
		fastVaa:   fast.Serialize(),
		hash:      fast.Digest(),
		baseFee:   baseFee,
		cctpNonce: nonce,
		prepare: application.PrepareOrderResponseArgs{
			FastVaa:         fast.Serialize(),
			FinalizedVaa:    finalized.Serialize(),
			CctpMessage:     rawCctpMessage,
			CctpAttestation: attestation,
		},
	}
}

// attestedMessage returns a CCTP message minting amount to mintRecipient on
// the engine domain, along with its attestation.
func (e *testEngine) attestedMessage(
	nonce, amount uint64, mintRecipient domain.Address,
) ([]byte, []byte) {
	msg := &cctp.Message{
		SourceDomain:      sourceDomain,
		DestinationDomain: localDomain,
		Nonce:             nonce,
		Sender:            randomAddress(),
		Recipient:         randomAddress(),
		Body: cctp.BurnMessage{
			BurnToken:     burnToken,
			MintRecipient: mintRecipient,
			Amount:        amount,
			MessageSender: randomAddress(),
		},
	}
	raw := msg.Serialize()
	attestation, err := cctp.Attest(raw, e.attesters...)
	require.NoError(e.t, err)
	return raw, attestation
}

func (e *testEngine) placeInitialOffer(
	o *testOrder, signer, offerToken domain.Address, offerPrice uint64,
) (*domain.Auction, error) {
	return e.auctions.PlaceInitialOffer(e.ctx, signer, application.PlaceInitialOfferArgs{
		FastVaa:    o.fastVaa,
		OfferPrice: offerPrice,
		OfferToken: offerToken,
	})
}

func (e *testEngine) improveOffer(
	o *testOrder, signer, offerToken, bestOfferToken domain.Address,
	offerPrice uint64,
) (*domain.Auction, error) {
	return e.auctions.ImproveOffer(e.ctx, signer, application.ImproveOfferArgs{
		FastVaaHash:    o.hash,
		OfferPrice:     offerPrice,
		OfferToken:     offerToken,
		BestOfferToken: bestOfferToken,
	})
}

func (e *testEngine) execute(
	o *testOrder, signer, executorToken domain.Address,
) (*application.ExecuteFastOrderReply, error) {
	return e.auctions.ExecuteFastOrder(e.ctx, signer, application.ExecuteFastOrderArgs{
		FastVaa:       o.fastVaa,
		ExecutorToken: executorToken,
	})
}

// publishedMessage returns the VAA published by the engine emitter with the
// given sequence.
func (e *testEngine) publishedMessage(sequence uint64) *vaa.VAA {
	raw, err := e.tokenRouter.GetPublishedMessage(e.ctx, sequence)
	require.NoError(e.t, err)
	v, err := vaa.Parse(raw)
	require.NoError(e.t, err)
	return v
}

func randomAddress() domain.Address {
	var a domain.Address
	_, _ = rand.Read(a[:])
	return a
}

// mutate rewrites the fast VAA of the order and updates the values derived
// from it.
func (o *testOrder) mutate(t *testing.T, fn func(v *vaa.VAA)) {
	v, err := vaa.Parse(o.fastVaa)
	require.NoError(t, err)
	fn(v)
	o.fastVaa = v.Serialize()
	o.hash = v.Digest()
	o.prepare.FastVaa = o.fastVaa
}

func (e *testEngine) withPayload(raw, payload []byte) []byte {
	v, err := vaa.Parse(raw)
	require.NoError(e.t, err)
	v.Payload = payload
	return v.Serialize()
}

func (e *testEngine) withEmitter(raw []byte, emitter domain.Address) []byte {
	v, err := vaa.Parse(raw)
	require.NoError(e.t, err)
	v.EmitterAddress = emitter
	return v.Serialize()
}

// mutateFinalized rewrites the finalized VAA carrying the deposit of the
// order.
func (o *testOrder) mutateFinalized(
	t *testing.T, fn func(v *vaa.VAA, deposit *message.Deposit),
) {
	v, err := vaa.Parse(o.prepare.FinalizedVaa)
	require.NoError(t, err)
	deposit, err := message.ParseDeposit(v.Payload)
	require.NoError(t, err)
	fn(v, deposit)
	v.Payload, err = deposit.Serialize()
	require.NoError(t, err)
	o.prepare.FinalizedVaa = v.Serialize()
}
