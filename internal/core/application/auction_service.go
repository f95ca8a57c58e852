package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

// AuctionService defines the methods of the application layer for the
// auction lifecycle of fast orders: open, improve and execute.
type AuctionService interface {
	PlaceInitialOffer(
		ctx context.Context, signer domain.Address, args PlaceInitialOfferArgs,
	) (*domain.Auction, error)
	ImproveOffer(
		ctx context.Context, signer domain.Address, args ImproveOfferArgs,
	) (*domain.Auction, error)
	ExecuteFastOrder(
		ctx context.Context, signer domain.Address, args ExecuteFastOrderArgs,
	) (*ExecuteFastOrderReply, error)

	GetAuction(ctx context.Context, vaaHash domain.Hash) (*domain.Auction, error)
	// ListActiveAuctions returns the auctions still waiting for execution,
	// oldest first.
	ListActiveAuctions(ctx context.Context) ([]*domain.Auction, error)
	ListAuctionsByStatus(
		ctx context.Context, status domain.AuctionStatusCode,
	) ([]*domain.Auction, error)
}

type auctionService struct {
	*engine
}

func newAuctionService(engine *engine) AuctionService {
	return &auctionService{engine}
}

func (s *auctionService) PlaceInitialOffer(
	ctx context.Context, signer domain.Address, args PlaceInitialOfferArgs,
) (*domain.Auction, error) {
	fastVaa, order, err := parseFastOrderVaa(args.FastVaa)
	if err != nil {
		return nil, err
	}
	vaaHash := fastVaa.Digest()
	slot := s.clock.CurrentSlot()
	now := s.clock.Now().Unix()

	var (
		auction *domain.Auction
		stake   uint64
	)
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		custodian, err := s.repoManager.CustodianRepository().GetCustodian(ctx)
		if err != nil {
			return nil, err
		}
		if err := custodian.RequireNotPaused(); err != nil {
			return nil, err
		}

		auctions := s.repoManager.AuctionRepository()
		if _, err := auctions.GetAuction(ctx, vaaHash); err == nil {
			return nil, domain.ErrAuctionAlreadyStarted
		} else if !errors.Is(err, domain.ErrAuctionNotFound) {
			return nil, err
		}

		if _, err := s.sourceRouter(ctx, fastVaa); err != nil {
			return nil, err
		}
		target, err := s.targetRouter(ctx, order.TargetChain)
		if err != nil {
			return nil, err
		}
		config, err := s.getAuctionConfig(ctx, custodian.AuctionConfigID)
		if err != nil {
			return nil, err
		}
		if err := s.requireTokenOwner(ctx, args.OfferToken, signer); err != nil {
			return nil, err
		}

		auction = domain.NewAuction(vaaHash)
		stake, err = auction.PlaceInitialOffer(domain.InitialOffer{
			VaaHash:        vaaHash,
			VaaTimestamp:   fastVaa.Timestamp,
			VaaSequence:    fastVaa.Sequence,
			SourceChain:    fastVaa.EmitterChain,
			Order:          order,
			Config:         config,
			TargetProtocol: target.Protocol,
			OfferToken:     args.OfferToken,
			OfferPrice:     args.OfferPrice,
			Slot:           slot,
			Now:            now,
		})
		if err != nil {
			return nil, err
		}

		custody := auction.Info.CustodyToken
		if err := s.openCustody(ctx, custody); err != nil {
			return nil, err
		}
		if err := s.transfer(ctx, args.OfferToken, custody, stake); err != nil {
			return nil, fmt.Errorf("failed to escrow offer stake: %w", err)
		}
		return nil, auctions.AddAuction(ctx, auction)
	}); err != nil {
		return nil, err
	}

	log.Debugf(
		"auction %s started at slot %d with offer %d", vaaHash, slot, args.OfferPrice,
	)
	s.emit(TopicAuctionStarted, map[string]interface{}{
		"vaa_hash":         vaaHash.String(),
		"source_chain":     fastVaa.EmitterChain,
		"target_chain":     order.TargetChain,
		"amount_in":        order.AmountIn,
		"max_fee":          order.MaxFee,
		"offer_price":      args.OfferPrice,
		"best_offer_token": args.OfferToken.String(),
		"security_deposit": auction.Info.SecurityDeposit,
		"start_slot":       slot,
		"config_id":        auction.Info.ConfigID,
	})
	return auction, nil
}

func (s *auctionService) ImproveOffer(
	ctx context.Context, signer domain.Address, args ImproveOfferArgs,
) (*domain.Auction, error) {
	slot := s.clock.CurrentSlot()

	var (
		auction  *domain.Auction
		improved *domain.ImprovedOffer
	)
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		custodian, err := s.repoManager.CustodianRepository().GetCustodian(ctx)
		if err != nil {
			return nil, err
		}
		if err := custodian.RequireNotPaused(); err != nil {
			return nil, err
		}
		if err := s.requireTokenOwner(ctx, args.OfferToken, signer); err != nil {
			return nil, err
		}

		if err := s.repoManager.AuctionRepository().UpdateAuction(
			ctx, args.FastVaaHash,
			func(a *domain.Auction) (*domain.Auction, error) {
				if !a.IsActive() {
					return nil, domain.ErrAuctionNotActive
				}
				config, err := s.getAuctionConfig(ctx, a.Info.ConfigID)
				if err != nil {
					return nil, err
				}
				improved, err = a.ImproveOffer(
					config.Parameters, args.BestOfferToken, args.OfferToken,
					args.OfferPrice, slot,
				)
				if err != nil {
					return nil, err
				}
				auction = a
				return a, nil
			},
		); err != nil {
			return nil, err
		}

		// Escrow the new stake before releasing the displaced one.
		custody := auction.Info.CustodyToken
		if err := s.transfer(ctx, args.OfferToken, custody, improved.Stake); err != nil {
			return nil, fmt.Errorf("failed to escrow offer stake: %w", err)
		}
		if err := s.transfer(
			ctx, custody, improved.DisplacedToken, improved.Refund,
		); err != nil {
			return nil, fmt.Errorf("failed to refund displaced offer: %w", err)
		}
		return nil, nil
	}); err != nil {
		return nil, err
	}

	log.Debugf(
		"auction %s improved at slot %d with offer %d",
		args.FastVaaHash, slot, args.OfferPrice,
	)
	s.emit(TopicOfferImproved, map[string]interface{}{
		"vaa_hash":         args.FastVaaHash.String(),
		"offer_price":      args.OfferPrice,
		"best_offer_token": args.OfferToken.String(),
		"displaced_token":  improved.DisplacedToken.String(),
		"slot":             slot,
	})
	return auction, nil
}

func (s *auctionService) ExecuteFastOrder(
	ctx context.Context, signer domain.Address, args ExecuteFastOrderArgs,
) (*ExecuteFastOrderReply, error) {
	fastVaa, order, err := parseFastOrderVaa(args.FastVaa)
	if err != nil {
		return nil, err
	}
	vaaHash := fastVaa.Digest()
	slot := s.clock.CurrentSlot()

	reply := &ExecuteFastOrderReply{}
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		if err := s.requireTokenAccount(ctx, args.ExecutorToken); err != nil {
			return nil, fmt.Errorf("executor token: %w", err)
		}
		target, err := s.targetRouter(ctx, order.TargetChain)
		if err != nil {
			return nil, err
		}

		var execution *domain.Execution
		if err := s.repoManager.AuctionRepository().UpdateAuction(
			ctx, vaaHash, func(a *domain.Auction) (*domain.Auction, error) {
				if !a.IsActive() {
					return nil, domain.ErrAuctionNotActive
				}
				config, err := s.getAuctionConfig(ctx, a.Info.ConfigID)
				if err != nil {
					return nil, err
				}
				execution, err = a.Execute(
					config.Parameters, order, args.ExecutorToken, slot,
				)
				if err != nil {
					return nil, err
				}
				reply.Auction = a
				return a, nil
			},
		); err != nil {
			return nil, err
		}

		info := reply.Auction.Info
		if err := s.releasePayouts(ctx, info.CustodyToken, execution.Payouts); err != nil {
			return nil, err
		}

		fill := reply.Auction.Fill(order)
		sequence, err := s.deliverFill(
			ctx, signer, target, info.CustodyToken, execution.UserAmount, fill,
		)
		if err != nil {
			return nil, err
		}
		if err := s.closeCustody(ctx, info.CustodyToken); err != nil {
			return nil, err
		}

		reply.UserAmount = execution.UserAmount
		reply.Penalty = execution.Penalty.Penalty
		reply.UserReward = execution.Penalty.UserReward
		reply.Sequence = sequence
		return nil, nil
	}); err != nil {
		return nil, err
	}

	log.Debugf(
		"auction %s executed at slot %d by %s", vaaHash, slot, args.ExecutorToken,
	)
	completed := reply.Auction.Status.Completed
	s.emit(TopicOrderExecuted, map[string]interface{}{
		"vaa_hash":       vaaHash.String(),
		"executor_token": args.ExecutorToken.String(),
		"slot":           slot,
		"penalized":      completed.ExecutePenalty != nil,
		"penalty":        reply.Penalty,
		"user_reward":    reply.UserReward,
		"user_amount":    reply.UserAmount,
		"sequence":       reply.Sequence,
	})
	return reply, nil
}

func (s *auctionService) GetAuction(
	ctx context.Context, vaaHash domain.Hash,
) (*domain.Auction, error) {
	return s.repoManager.AuctionRepository().GetAuction(ctx, vaaHash)
}

func (s *auctionService) ListActiveAuctions(
	ctx context.Context,
) ([]*domain.Auction, error) {
	return s.repoManager.AuctionRepository().GetActiveAuctions(
		ctx, s.clock.CurrentSlot(),
	)
}

func (s *auctionService) ListAuctionsByStatus(
	ctx context.Context, status domain.AuctionStatusCode,
) ([]*domain.Auction, error) {
	return s.repoManager.AuctionRepository().GetAuctionsByStatus(ctx, status)
}
