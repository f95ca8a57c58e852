package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/pkg/message"
	"github.com/fastfill-network/matching-engine/pkg/vaa"
	log "github.com/sirupsen/logrus"
)

// SettlementService defines the methods of the application layer to settle
// fast orders once their slow transfer is finalized.
type SettlementService interface {
	PrepareOrderResponse(
		ctx context.Context, signer domain.Address, args PrepareOrderResponseArgs,
	) (*domain.PreparedOrderResponse, error)
	SettleAuctionComplete(
		ctx context.Context, signer domain.Address, args SettleAuctionCompleteArgs,
	) (*SettleReply, error)
	SettleAuctionNoneCctp(
		ctx context.Context, signer domain.Address, args SettleAuctionNoneArgs,
	) (*SettleReply, error)
	SettleAuctionNoneLocal(
		ctx context.Context, signer domain.Address, args SettleAuctionNoneArgs,
	) (*SettleReply, error)

	GetPreparedOrderResponse(
		ctx context.Context, fastVaaHash domain.Hash,
	) (*domain.PreparedOrderResponse, error)
}

type settlementService struct {
	*engine
}

func newSettlementService(engine *engine) SettlementService {
	return &settlementService{engine}
}

func (s *settlementService) PrepareOrderResponse(
	ctx context.Context, signer domain.Address, args PrepareOrderResponseArgs,
) (*domain.PreparedOrderResponse, error) {
	var (
		response *domain.PreparedOrderResponse
		created  bool
	)
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		var err error
		response, created, err = s.prepare(ctx, signer, args)
		return nil, err
	}); err != nil {
		return nil, err
	}

	if created {
		s.emitPrepared(response)
	}
	return response, nil
}

func (s *settlementService) SettleAuctionComplete(
	ctx context.Context, signer domain.Address, args SettleAuctionCompleteArgs,
) (*SettleReply, error) {
	reply := &SettleReply{}
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		responses := s.repoManager.PreparedOrderResponseRepository()
		response, err := responses.GetPreparedOrderResponse(ctx, args.FastVaaHash)
		if err != nil {
			return nil, err
		}
		repayment, err := s.balanceOf(ctx, response.CustodyToken)
		if err != nil {
			return nil, err
		}

		if err := s.repoManager.AuctionRepository().UpdateAuction(
			ctx, args.FastVaaHash,
			func(a *domain.Auction) (*domain.Auction, error) {
				payouts, err := a.SettleComplete(
					args.ExecutorToken, args.BestOfferToken, response.BaseFee, repayment,
				)
				if err != nil {
					return nil, err
				}
				reply.Auction = a
				reply.Payouts = payouts
				return a, nil
			},
		); err != nil {
			return nil, err
		}

		if err := s.releasePayouts(ctx, response.CustodyToken, reply.Payouts); err != nil {
			return nil, err
		}
		if err := s.closeCustody(ctx, response.CustodyToken); err != nil {
			return nil, err
		}
		return nil, responses.DeletePreparedOrderResponse(ctx, args.FastVaaHash)
	}); err != nil {
		return nil, err
	}

	log.Debugf("auction %s settled", args.FastVaaHash)
	s.emitSettled("complete", reply)
	return reply, nil
}

func (s *settlementService) SettleAuctionNoneCctp(
	ctx context.Context, signer domain.Address, args SettleAuctionNoneArgs,
) (*SettleReply, error) {
	return s.settleNone(ctx, signer, args, domain.MessageProtocolCctp)
}

func (s *settlementService) SettleAuctionNoneLocal(
	ctx context.Context, signer domain.Address, args SettleAuctionNoneArgs,
) (*SettleReply, error) {
	return s.settleNone(ctx, signer, args, domain.MessageProtocolLocal)
}

func (s *settlementService) GetPreparedOrderResponse(
	ctx context.Context, fastVaaHash domain.Hash,
) (*domain.PreparedOrderResponse, error) {
	return s.repoManager.PreparedOrderResponseRepository().GetPreparedOrderResponse(
		ctx, fastVaaHash,
	)
}

// settleNone settles an order that was never auctioned. The two transports
// only differ in how the user amount reaches the destination, which must be
// reached through the given protocol.
func (s *settlementService) settleNone(
	ctx context.Context, signer domain.Address, args SettleAuctionNoneArgs,
	protocol domain.MessageProtocolType,
) (*SettleReply, error) {
	var (
		prepared *domain.PreparedOrderResponse
		reply    = &SettleReply{}
	)
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		custodian, err := s.repoManager.CustodianRepository().GetCustodian(ctx)
		if err != nil {
			return nil, err
		}
		if custodian.FeeRecipientToken != args.FeeRecipientToken {
			return nil, domain.ErrFeeRecipientTokenMismatch
		}

		auctions := s.repoManager.AuctionRepository()
		if _, err := auctions.GetAuction(ctx, args.FastVaaHash); err == nil {
			return nil, domain.ErrAuctionAlreadyStarted
		} else if !errors.Is(err, domain.ErrAuctionNotFound) {
			return nil, err
		}

		if args.Prepare != nil {
			// Funds are minted only for orders this path can deliver.
			fastVaa, order, err := parseFastOrderVaa(args.Prepare.FastVaa)
			if err != nil {
				return nil, err
			}
			if fastVaa.Digest() != args.FastVaaHash {
				return nil, domain.ErrVaaHashMismatch
			}
			if _, err := s.targetRouterFor(ctx, order.TargetChain, protocol); err != nil {
				return nil, err
			}
			response, created, err := s.prepare(ctx, signer, *args.Prepare)
			if err != nil {
				return nil, err
			}
			if created {
				prepared = response
			}
		}

		responses := s.repoManager.PreparedOrderResponseRepository()
		response, err := responses.GetPreparedOrderResponse(ctx, args.FastVaaHash)
		if err != nil {
			return nil, err
		}
		target, err := s.targetRouterFor(ctx, response.TargetChain, protocol)
		if err != nil {
			return nil, err
		}

		repayment, err := s.balanceOf(ctx, response.CustodyToken)
		if err != nil {
			return nil, err
		}
		fee, userAmount := response.SettleNone(repayment)
		if err := s.transfer(
			ctx, response.CustodyToken, custodian.FeeRecipientToken, fee,
		); err != nil {
			return nil, fmt.Errorf("failed to pay base fee: %w", err)
		}
		sequence, err := s.deliverFill(
			ctx, signer, target, response.CustodyToken, userAmount, response.Fill(),
		)
		if err != nil {
			return nil, err
		}
		if err := s.closeCustody(ctx, response.CustodyToken); err != nil {
			return nil, err
		}
		if err := responses.DeletePreparedOrderResponse(ctx, args.FastVaaHash); err != nil {
			return nil, err
		}

		auction := domain.NewSettledNoneAuction(
			args.FastVaaHash, response.FastVaaTimestamp, target.Protocol, fee,
		)
		if err := auctions.AddAuction(ctx, auction); err != nil {
			return nil, err
		}

		reply.Auction = auction
		if fee > 0 {
			reply.Payouts = []domain.Payout{
				{Token: custodian.FeeRecipientToken, Amount: fee},
			}
		}
		reply.UserAmount = userAmount
		reply.Sequence = sequence
		return nil, nil
	}); err != nil {
		return nil, err
	}

	if prepared != nil {
		s.emitPrepared(prepared)
	}
	log.Debugf("order %s settled without auction", args.FastVaaHash)
	s.emitSettled("none_"+protocol.String(), reply)
	return reply, nil
}

// targetRouterFor returns the endpoint of the given chain, which must be
// reached through the given protocol.
func (s *settlementService) targetRouterFor(
	ctx context.Context, chain domain.ChainID, protocol domain.MessageProtocolType,
) (*domain.RouterEndpoint, error) {
	target, err := s.targetRouter(ctx, chain)
	if err != nil {
		return nil, err
	}
	if target.Protocol.Type != protocol {
		return nil, domain.ErrInvalidTargetRouter
	}
	return target, nil
}

// prepare validates the slow transfer of a fast order and mints its funds
// into the prepared custody. An order response already prepared is returned
// as is.
func (s *settlementService) prepare(
	ctx context.Context, signer domain.Address, args PrepareOrderResponseArgs,
) (*domain.PreparedOrderResponse, bool, error) {
	fastVaa, order, err := parseFastOrderVaa(args.FastVaa)
	if err != nil {
		return nil, false, err
	}
	fastVaaHash := fastVaa.Digest()

	responses := s.repoManager.PreparedOrderResponseRepository()
	if response, err := responses.GetPreparedOrderResponse(
		ctx, fastVaaHash,
	); err == nil {
		return response, false, nil
	}
	if auction, err := s.repoManager.AuctionRepository().GetAuction(
		ctx, fastVaaHash,
	); err == nil && auction.Status.Code == domain.AuctionStatusSettled {
		return nil, false, domain.ErrOrderAlreadySettled
	}

	finalizedVaa, err := vaa.Parse(args.FinalizedVaa)
	if err != nil {
		return nil, false, err
	}
	if finalizedVaa.EmitterChain != fastVaa.EmitterChain ||
		finalizedVaa.EmitterAddress != fastVaa.EmitterAddress ||
		finalizedVaa.Sequence+1 != fastVaa.Sequence {
		return nil, false, domain.ErrVaaMismatch
	}
	source, err := s.sourceRouter(ctx, fastVaa)
	if err != nil {
		return nil, false, err
	}
	if source.Protocol.Type != domain.MessageProtocolCctp {
		return nil, false, domain.ErrInvalidSourceRouter
	}

	deposit, err := message.ParseDeposit(finalizedVaa.Payload)
	if err != nil {
		log.WithError(err).Debug("finalized vaa does not carry a deposit")
		return nil, false, domain.ErrInvalidDeposit
	}
	slowOrderResponse, err := message.ParseSlowOrderResponse(deposit.Payload)
	if err != nil {
		log.WithError(err).Debug("deposit does not carry a slow order response")
		return nil, false, domain.ErrNotSlowOrderResponse
	}
	if deposit.Amount != order.AmountIn {
		return nil, false, domain.ErrDepositAmountMismatch
	}
	if deposit.SourceCctpDomain != source.Protocol.Domain {
		return nil, false, domain.ErrCctpMessageMismatch
	}

	mint, err := s.transmitter.VerifyMessage(
		ctx, args.CctpMessage, args.CctpAttestation,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to verify cctp message: %w", err)
	}
	if mint.MintRecipient != domain.CctpMintRecipient(s.engineProgramID) {
		return nil, false, domain.ErrInvalidMintRecipient
	}
	if mint.SourceDomain != deposit.SourceCctpDomain ||
		mint.Nonce != deposit.CctpNonce || mint.Amount != deposit.Amount ||
		mint.MintRecipient != deposit.MintRecipient {
		return nil, false, domain.ErrCctpMessageMismatch
	}

	// A rollback of the transaction releases the nonce.
	if err := s.repoManager.UsedCctpNonceRepository().AddUsedCctpNonce(
		ctx, &domain.UsedCctpNonce{
			SourceDomain: mint.SourceDomain,
			Nonce:        mint.Nonce,
			FastVaaHash:  fastVaaHash,
		},
	); err != nil {
		return nil, false, fmt.Errorf("failed to receive cctp message: %w", err)
	}

	response := domain.NewPreparedOrderResponse(
		fastVaaHash, fastVaa.Timestamp, fastVaa.EmitterChain, signer, order,
		slowOrderResponse.BaseFee,
	)
	if err := s.openCustody(ctx, response.CustodyToken); err != nil {
		return nil, false, err
	}
	if err := s.mint(ctx, response.CustodyToken, mint.Amount); err != nil {
		return nil, false, err
	}
	if err := responses.AddPreparedOrderResponse(ctx, response); err != nil {
		return nil, false, err
	}
	return response, true, nil
}

func (s *settlementService) emitPrepared(response *domain.PreparedOrderResponse) {
	log.Debugf("order response %s prepared", response.FastVaaHash)
	s.emit(TopicOrderResponsePrepared, map[string]interface{}{
		"vaa_hash":     response.FastVaaHash.String(),
		"prepared_by":  response.PreparedBy.String(),
		"source_chain": response.SourceChain,
		"target_chain": response.TargetChain,
		"base_fee":     response.BaseFee,
		"amount_in":    response.AmountIn,
	})
}

func (s *settlementService) emitSettled(path string, reply *SettleReply) {
	payouts := make([]map[string]interface{}, 0, len(reply.Payouts))
	for _, p := range reply.Payouts {
		payouts = append(payouts, map[string]interface{}{
			"token":  p.Token.String(),
			"amount": p.Amount,
		})
	}
	settled := reply.Auction.Status.Settled
	payload := map[string]interface{}{
		"vaa_hash": reply.Auction.VaaHash.String(),
		"path":     path,
		"fee":      settled.Fee,
		"payouts":  payouts,
	}
	if settled.TotalPenalty != nil {
		payload["total_penalty"] = *settled.TotalPenalty
	}
	s.emit(TopicAuctionSettled, payload)
}
