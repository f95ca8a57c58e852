package application

import (
	"bytes"
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/pkg/message"
	"github.com/fastfill-network/matching-engine/pkg/vaa"
	log "github.com/sirupsen/logrus"
)

// TokenRouterService defines the methods of the application layer for the
// token router living on the engine chain: it redeems the fast fills the
// engine publishes for local destinations.
type TokenRouterService interface {
	RedeemFastFill(
		ctx context.Context, signer domain.Address, args RedeemFastFillArgs,
	) (*domain.RedeemedFastFill, error)
	GetRedeemedFastFill(
		ctx context.Context, vaaHash domain.Hash,
	) (*domain.RedeemedFastFill, error)
	// GetPublishedMessage returns the serialized VAA the engine emitter
	// published with the given sequence.
	GetPublishedMessage(ctx context.Context, sequence uint64) ([]byte, error)
}

type tokenRouterService struct {
	*engine
}

func newTokenRouterService(engine *engine) TokenRouterService {
	return &tokenRouterService{engine}
}

func (s *tokenRouterService) RedeemFastFill(
	ctx context.Context, signer domain.Address, args RedeemFastFillArgs,
) (*domain.RedeemedFastFill, error) {
	v, err := vaa.Parse(args.Vaa)
	if err != nil {
		return nil, err
	}
	if v.EmitterChain != s.localChain || v.EmitterAddress != s.emitter() {
		return nil, domain.ErrInvalidEmitterForFastFill
	}
	fastFill, err := message.ParseFastFill(v.Payload)
	if err != nil {
		log.WithError(err).Debug("vaa does not carry a fast fill")
		return nil, domain.ErrNotFastFill
	}
	if fastFill.Fill.Redeemer != signer {
		return nil, domain.ErrInvalidRedeemer
	}
	published, err := s.messenger.GetSignedMessage(ctx, s.emitter(), v.Sequence)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(published, args.Vaa) {
		return nil, domain.ErrFastFillNotPublished
	}

	redeemed := &domain.RedeemedFastFill{
		VaaHash:  v.Digest(),
		Sequence: v.Sequence,
		Redeemer: signer,
		Amount:   fastFill.Amount,
	}
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		if err := s.requireTokenOwner(ctx, args.DestinationToken, signer); err != nil {
			return nil, err
		}
		if err := s.repoManager.RedeemedFastFillRepository().AddRedeemedFastFill(
			ctx, redeemed,
		); err != nil {
			return nil, err
		}
		return nil, s.transfer(
			ctx, domain.LocalCustodyToken(s.tokenRouterProgramID),
			args.DestinationToken, fastFill.Amount,
		)
	}); err != nil {
		return nil, err
	}

	log.Debugf("fast fill %d redeemed by %s", v.Sequence, signer)
	s.emit(TopicFastFillRedeemed, map[string]interface{}{
		"vaa_hash":          redeemed.VaaHash.String(),
		"sequence":          redeemed.Sequence,
		"redeemer":          signer.String(),
		"destination_token": args.DestinationToken.String(),
		"amount":            redeemed.Amount,
		"source_chain":      fastFill.Fill.SourceChain,
	})
	return redeemed, nil
}

func (s *tokenRouterService) GetRedeemedFastFill(
	ctx context.Context, vaaHash domain.Hash,
) (*domain.RedeemedFastFill, error) {
	return s.repoManager.RedeemedFastFillRepository().GetRedeemedFastFill(ctx, vaaHash)
}

func (s *tokenRouterService) GetPublishedMessage(
	ctx context.Context, sequence uint64,
) ([]byte, error) {
	msg, err := s.messenger.GetSignedMessage(ctx, s.emitter(), sequence)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrPublishedMessageNotFound
	}
	return msg, nil
}
