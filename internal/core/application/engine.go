package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/fastfill-network/matching-engine/pkg/message"
	"github.com/fastfill-network/matching-engine/pkg/vaa"
	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

// consistencyLevelFinalized asks the guardians to attest outbound messages
// only once the engine chain finalized them.
const consistencyLevelFinalized = uint8(1)

type engineArgs struct {
	repoManager          ports.RepoManager
	clock                ports.SlotClock
	transmitter          ports.CctpTransmitter
	messenger            ports.MessagePublisher
	publishers           []ports.EventPublisher
	localChain           domain.ChainID
	upgradeAuthority     domain.Address
	engineProgramID      domain.Address
	tokenRouterProgramID domain.Address
	enactDelay           uint64
	configCacheSize      int
}

// engine groups what every service needs: storage, time, the external
// transports and the event bus.
type engine struct {
	repoManager ports.RepoManager
	clock       ports.SlotClock
	transmitter ports.CctpTransmitter
	messenger   ports.MessagePublisher
	events      *eventBus
	// configs caches auction parameters versions, immutable once stored.
	configs *lru.Cache

	localChain           domain.ChainID
	upgradeAuthority     domain.Address
	engineProgramID      domain.Address
	tokenRouterProgramID domain.Address
	enactDelay           uint64
}

func newEngine(args engineArgs) *engine {
	configs, err := lru.New(args.configCacheSize)
	if err != nil {
		// only happens for a non-positive size
		configs, _ = lru.New(defaultConfigCacheSize)
	}
	return &engine{
		repoManager:          args.repoManager,
		clock:                args.clock,
		transmitter:          args.transmitter,
		messenger:            args.messenger,
		events:               newEventBus(args.publishers),
		configs:              configs,
		localChain:           args.localChain,
		upgradeAuthority:     args.upgradeAuthority,
		engineProgramID:      args.engineProgramID,
		tokenRouterProgramID: args.tokenRouterProgramID,
		enactDelay:           args.enactDelay,
	}
}

func (e *engine) emitter() domain.Address {
	return domain.EmitterAddress(e.engineProgramID)
}

func (e *engine) runTransaction(
	ctx context.Context, handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	return e.repoManager.RunTransaction(ctx, false, handler)
}

func (e *engine) getAuctionConfig(
	ctx context.Context, id uint32,
) (*domain.AuctionConfig, error) {
	if v, ok := e.configs.Get(id); ok {
		config := v.(domain.AuctionConfig)
		return &config, nil
	}
	config, err := e.repoManager.AuctionConfigRepository().GetAuctionConfig(ctx, id)
	if err != nil {
		return nil, err
	}
	e.configs.Add(id, *config)
	return config, nil
}

// requireTokenOwner makes sure the token account exists and belongs to owner.
func (e *engine) requireTokenOwner(
	ctx context.Context, address, owner domain.Address,
) error {
	account, err := e.repoManager.TokenAccountRepository().GetTokenAccount(ctx, address)
	if err != nil {
		return err
	}
	if account.Owner != owner {
		return domain.ErrTokenOwnerMismatch
	}
	return nil
}

func (e *engine) requireTokenAccount(ctx context.Context, address domain.Address) error {
	_, err := e.repoManager.TokenAccountRepository().GetTokenAccount(ctx, address)
	return err
}

func (e *engine) balanceOf(ctx context.Context, address domain.Address) (uint64, error) {
	account, err := e.repoManager.TokenAccountRepository().GetTokenAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (e *engine) openAccount(ctx context.Context, address, owner domain.Address) error {
	account, err := domain.NewTokenAccount(address, owner)
	if err != nil {
		return err
	}
	return e.repoManager.TokenAccountRepository().AddTokenAccount(ctx, account)
}

// openCustody opens an escrow account owned by the engine program. The
// account must not exist yet.
func (e *engine) openCustody(ctx context.Context, address domain.Address) error {
	if err := e.openAccount(ctx, address, e.engineProgramID); err != nil {
		return fmt.Errorf("failed to open custody %s: %w", address, err)
	}
	return nil
}

// ensureAccount opens the account unless it already exists with the same
// owner.
func (e *engine) ensureAccount(ctx context.Context, address, owner domain.Address) error {
	err := e.requireTokenOwner(ctx, address, owner)
	if errors.Is(err, domain.ErrTokenAccountNotFound) {
		return e.openAccount(ctx, address, owner)
	}
	return err
}

func (e *engine) mint(ctx context.Context, to domain.Address, amount uint64) error {
	return e.repoManager.TokenAccountRepository().UpdateTokenAccount(
		ctx, to, func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
			if err := a.Credit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

func (e *engine) burn(ctx context.Context, from domain.Address, amount uint64) error {
	return e.repoManager.TokenAccountRepository().UpdateTokenAccount(
		ctx, from, func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
			if err := a.Debit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

func (e *engine) transfer(
	ctx context.Context, from, to domain.Address, amount uint64,
) error {
	if err := e.requireTokenAccount(ctx, to); err != nil {
		return err
	}
	if amount == 0 || from == to {
		return e.requireTokenAccount(ctx, from)
	}
	if err := e.burn(ctx, from, amount); err != nil {
		return err
	}
	return e.mint(ctx, to, amount)
}

func (e *engine) releasePayouts(
	ctx context.Context, custody domain.Address, payouts []domain.Payout,
) error {
	for _, p := range payouts {
		if err := e.transfer(ctx, custody, p.Token, p.Amount); err != nil {
			return fmt.Errorf("failed to pay out %d to %s: %w", p.Amount, p.Token, err)
		}
	}
	return nil
}

// closeCustody removes a custody account that must have been emptied.
func (e *engine) closeCustody(ctx context.Context, custody domain.Address) error {
	balance, err := e.balanceOf(ctx, custody)
	if err != nil {
		return err
	}
	if balance != 0 {
		return fmt.Errorf(
			"%w: %s holds %d", ErrCustodyNotEmpty, custody, balance,
		)
	}
	return e.repoManager.TokenAccountRepository().DeleteTokenAccount(ctx, custody)
}

// publishMessage posts the payload from the engine emitter. The message key
// is derived from the payer and its sequence, which is incremented.
func (e *engine) publishMessage(
	ctx context.Context, payer domain.Address, payload []byte,
) (uint64, error) {
	var payerSequence uint64
	if err := e.repoManager.PayerSequenceRepository().UpdatePayerSequence(
		ctx, payer, func(s *domain.PayerSequence) (*domain.PayerSequence, error) {
			payerSequence = s.TakeAndUprank()
			return s, nil
		},
	); err != nil {
		return 0, err
	}

	return e.messenger.PublishMessage(ctx, ports.OutboundMessage{
		Key:              domain.CoreMessageAddress(payer, payerSequence),
		Payer:            payer,
		Emitter:          e.emitter(),
		ConsistencyLevel: consistencyLevelFinalized,
		Payload:          payload,
	})
}

// deliverFill forwards amount from custody to the redeemer of the fill
// through the protocol of the destination endpoint. It returns the emitter
// sequence of the published message.
func (e *engine) deliverFill(
	ctx context.Context, payer domain.Address, endpoint *domain.RouterEndpoint,
	custody domain.Address, amount uint64, fill message.Fill,
) (uint64, error) {
	switch endpoint.Protocol.Type {
	case domain.MessageProtocolCctp:
		payload := fill.Serialize()
		if len(payload) > message.MaxDepositPayloadLen {
			return 0, message.ErrPayloadTooLarge
		}
		if err := e.burn(ctx, custody, amount); err != nil {
			return 0, err
		}
		nonce, err := e.transmitter.DepositForBurn(ctx, ports.CctpBurn{
			Amount:            amount,
			DestinationDomain: endpoint.Protocol.Domain,
			MintRecipient:     endpoint.MintRecipient,
			DestinationCaller: endpoint.Address,
			BurnSource:        custody,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to burn fill amount: %w", err)
		}
		deposit := message.Deposit{
			TokenAddress:          e.transmitter.BurnToken(),
			Amount:                amount,
			SourceCctpDomain:      e.transmitter.LocalDomain(),
			DestinationCctpDomain: endpoint.Protocol.Domain,
			CctpNonce:             nonce,
			BurnSource:            custody,
			MintRecipient:         endpoint.MintRecipient,
			Payload:               payload,
		}
		raw, err := deposit.Serialize()
		if err != nil {
			return 0, err
		}
		return e.publishMessage(ctx, payer, raw)
	case domain.MessageProtocolLocal:
		if err := e.transfer(ctx, custody, endpoint.MintRecipient, amount); err != nil {
			return 0, err
		}
		fastFill := message.FastFill{Fill: fill, Amount: amount}
		return e.publishMessage(ctx, payer, fastFill.Serialize())
	case domain.MessageProtocolNone:
		return 0, domain.ErrEndpointDisabled
	default:
		return 0, domain.ErrUnknownProtocol
	}
}

// sourceRouter returns the endpoint that emitted the given VAA.
func (e *engine) sourceRouter(
	ctx context.Context, v *vaa.VAA,
) (*domain.RouterEndpoint, error) {
	endpoint, err := e.repoManager.RouterEndpointRepository().GetRouterEndpoint(
		ctx, v.EmitterChain,
	)
	if err != nil {
		if errors.Is(err, domain.ErrRouterEndpointNotFound) {
			return nil, domain.ErrInvalidSourceRouter
		}
		return nil, err
	}
	if !endpoint.IsEnabled() || endpoint.Address != v.EmitterAddress {
		return nil, domain.ErrInvalidSourceRouter
	}
	return endpoint, nil
}

// targetRouter returns the enabled endpoint of the given destination chain.
func (e *engine) targetRouter(
	ctx context.Context, chain domain.ChainID,
) (*domain.RouterEndpoint, error) {
	endpoint, err := e.repoManager.RouterEndpointRepository().GetRouterEndpoint(
		ctx, chain,
	)
	if err != nil {
		if errors.Is(err, domain.ErrRouterEndpointNotFound) {
			return nil, domain.ErrInvalidTargetRouter
		}
		return nil, err
	}
	if err := endpoint.RequireEnabled(); err != nil {
		return nil, err
	}
	return endpoint, nil
}

func parseFastOrderVaa(raw []byte) (*vaa.VAA, *message.FastMarketOrder, error) {
	v, err := vaa.Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	order, err := message.ParseFastMarketOrder(v.Payload)
	if err != nil {
		log.WithError(err).Debug("fast vaa does not carry a fast market order")
		return nil, nil, domain.ErrNotFastMarketOrder
	}
	return v, order, nil
}

func (e *engine) emit(topic string, payload map[string]interface{}) {
	e.events.publish(topic, e.clock.CurrentSlot(), e.clock.Now(), payload)
}
