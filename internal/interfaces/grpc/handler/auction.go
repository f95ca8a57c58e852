package grpchandler

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/pkg/api"
)

type auctionHandler struct {
	auctionSvc application.AuctionService
}

// NewAuctionHandler is a constructor function returning an
// AuctionServiceServer.
func NewAuctionHandler(auctionSvc application.AuctionService) api.AuctionServiceServer {
	return &auctionHandler{auctionSvc}
}

func (h *auctionHandler) PlaceInitialOffer(
	ctx context.Context, req *api.PlaceInitialOfferRequest,
) (*api.PlaceInitialOfferResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	fastVaa, err := parseBytes("fast vaa", req.FastVaa)
	if err != nil {
		return nil, invalidArgument(err)
	}
	offerToken, err := parseAddress("offer token", req.OfferToken)
	if err != nil {
		return nil, invalidArgument(err)
	}

	auction, err := h.auctionSvc.PlaceInitialOffer(
		ctx, signer, application.PlaceInitialOfferArgs{
			FastVaa:    fastVaa,
			OfferPrice: req.OfferPrice,
			OfferToken: offerToken,
		},
	)
	if err != nil {
		return nil, err
	}
	return &api.PlaceInitialOfferResponse{Auction: auctionInfo(*auction).toApi()}, nil
}

func (h *auctionHandler) ImproveOffer(
	ctx context.Context, req *api.ImproveOfferRequest,
) (*api.ImproveOfferResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	vaaHash, err := parseHash("fast vaa hash", req.FastVaaHash)
	if err != nil {
		return nil, invalidArgument(err)
	}
	offerToken, err := parseAddress("offer token", req.OfferToken)
	if err != nil {
		return nil, invalidArgument(err)
	}
	bestOfferToken, err := parseAddress("best offer token", req.BestOfferToken)
	if err != nil {
		return nil, invalidArgument(err)
	}

	auction, err := h.auctionSvc.ImproveOffer(ctx, signer, application.ImproveOfferArgs{
		FastVaaHash:    vaaHash,
		OfferPrice:     req.OfferPrice,
		OfferToken:     offerToken,
		BestOfferToken: bestOfferToken,
	})
	if err != nil {
		return nil, err
	}
	return &api.ImproveOfferResponse{Auction: auctionInfo(*auction).toApi()}, nil
}

func (h *auctionHandler) ExecuteFastOrder(
	ctx context.Context, req *api.ExecuteFastOrderRequest,
) (*api.ExecuteFastOrderResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	fastVaa, err := parseBytes("fast vaa", req.FastVaa)
	if err != nil {
		return nil, invalidArgument(err)
	}
	executorToken, err := parseAddress("executor token", req.ExecutorToken)
	if err != nil {
		return nil, invalidArgument(err)
	}

	reply, err := h.auctionSvc.ExecuteFastOrder(
		ctx, signer, application.ExecuteFastOrderArgs{
			FastVaa:       fastVaa,
			ExecutorToken: executorToken,
		},
	)
	if err != nil {
		return nil, err
	}
	return &api.ExecuteFastOrderResponse{
		Auction:    auctionInfo(*reply.Auction).toApi(),
		UserAmount: reply.UserAmount,
		Penalty:    reply.Penalty,
		UserReward: reply.UserReward,
		Sequence:   reply.Sequence,
	}, nil
}

func (h *auctionHandler) GetAuction(
	ctx context.Context, req *api.GetAuctionRequest,
) (*api.GetAuctionResponse, error) {
	vaaHash, err := parseHash("vaa hash", req.VaaHash)
	if err != nil {
		return nil, invalidArgument(err)
	}
	auction, err := h.auctionSvc.GetAuction(ctx, vaaHash)
	if err != nil {
		return nil, err
	}
	return &api.GetAuctionResponse{Auction: auctionInfo(*auction).toApi()}, nil
}

func (h *auctionHandler) ListAuctions(
	ctx context.Context, req *api.ListAuctionsRequest,
) (*api.ListAuctionsResponse, error) {
	var (
		auctions []*domain.Auction
		err      error
	)
	if len(req.Status) <= 0 {
		auctions, err = h.auctionSvc.ListActiveAuctions(ctx)
	} else {
		code, perr := parseAuctionStatus(req.Status)
		if perr != nil {
			return nil, invalidArgument(perr)
		}
		auctions, err = h.auctionSvc.ListAuctionsByStatus(ctx, code)
	}
	if err != nil {
		return nil, err
	}
	return &api.ListAuctionsResponse{Auctions: auctionList(auctions).toApi()}, nil
}
