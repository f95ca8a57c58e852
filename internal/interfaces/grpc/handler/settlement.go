package grpchandler

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/pkg/api"
)

type settlementHandler struct {
	settlementSvc application.SettlementService
}

// NewSettlementHandler is a constructor function returning a
// SettlementServiceServer.
func NewSettlementHandler(
	settlementSvc application.SettlementService,
) api.SettlementServiceServer {
	return &settlementHandler{settlementSvc}
}

func (h *settlementHandler) PrepareOrderResponse(
	ctx context.Context, req *api.PrepareOrderResponseRequest,
) (*api.PrepareOrderResponseResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	args, err := parsePrepareOrderResponse(req)
	if err != nil {
		return nil, invalidArgument(err)
	}

	response, err := h.settlementSvc.PrepareOrderResponse(ctx, signer, *args)
	if err != nil {
		return nil, err
	}
	return &api.PrepareOrderResponseResponse{
		PreparedOrderResponse: preparedOrderResponseInfo(*response).toApi(),
	}, nil
}

func (h *settlementHandler) SettleAuctionComplete(
	ctx context.Context, req *api.SettleAuctionCompleteRequest,
) (*api.SettleAuctionResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	vaaHash, err := parseHash("fast vaa hash", req.FastVaaHash)
	if err != nil {
		return nil, invalidArgument(err)
	}
	executorToken, err := parseAddress("executor token", req.ExecutorToken)
	if err != nil {
		return nil, invalidArgument(err)
	}
	bestOfferToken, err := parseAddress("best offer token", req.BestOfferToken)
	if err != nil {
		return nil, invalidArgument(err)
	}

	reply, err := h.settlementSvc.SettleAuctionComplete(
		ctx, signer, application.SettleAuctionCompleteArgs{
			FastVaaHash:    vaaHash,
			ExecutorToken:  executorToken,
			BestOfferToken: bestOfferToken,
		},
	)
	if err != nil {
		return nil, err
	}
	return settleResponse(reply), nil
}

func (h *settlementHandler) SettleAuctionNoneCctp(
	ctx context.Context, req *api.SettleAuctionNoneRequest,
) (*api.SettleAuctionResponse, error) {
	return h.settleNone(ctx, req, h.settlementSvc.SettleAuctionNoneCctp)
}

func (h *settlementHandler) SettleAuctionNoneLocal(
	ctx context.Context, req *api.SettleAuctionNoneRequest,
) (*api.SettleAuctionResponse, error) {
	return h.settleNone(ctx, req, h.settlementSvc.SettleAuctionNoneLocal)
}

func (h *settlementHandler) GetPreparedOrderResponse(
	ctx context.Context, req *api.GetPreparedOrderResponseRequest,
) (*api.GetPreparedOrderResponseResponse, error) {
	vaaHash, err := parseHash("fast vaa hash", req.FastVaaHash)
	if err != nil {
		return nil, invalidArgument(err)
	}
	response, err := h.settlementSvc.GetPreparedOrderResponse(ctx, vaaHash)
	if err != nil {
		return nil, err
	}
	return &api.GetPreparedOrderResponseResponse{
		PreparedOrderResponse: preparedOrderResponseInfo(*response).toApi(),
	}, nil
}

type settleNoneFunc func(
	context.Context, domain.Address, application.SettleAuctionNoneArgs,
) (*application.SettleReply, error)

func (h *settlementHandler) settleNone(
	ctx context.Context, req *api.SettleAuctionNoneRequest, settle settleNoneFunc,
) (*api.SettleAuctionResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	vaaHash, err := parseHash("fast vaa hash", req.FastVaaHash)
	if err != nil {
		return nil, invalidArgument(err)
	}
	feeRecipient, err := parseAddress("fee recipient token", req.FeeRecipientToken)
	if err != nil {
		return nil, invalidArgument(err)
	}
	args := application.SettleAuctionNoneArgs{
		FastVaaHash:       vaaHash,
		FeeRecipientToken: feeRecipient,
	}
	if req.Prepare != nil {
		if args.Prepare, err = parsePrepareOrderResponse(req.Prepare); err != nil {
			return nil, invalidArgument(err)
		}
	}

	reply, err := settle(ctx, signer, args)
	if err != nil {
		return nil, err
	}
	return settleResponse(reply), nil
}

func parsePrepareOrderResponse(
	req *api.PrepareOrderResponseRequest,
) (*application.PrepareOrderResponseArgs, error) {
	fastVaa, err := parseBytes("fast vaa", req.FastVaa)
	if err != nil {
		return nil, err
	}
	finalizedVaa, err := parseBytes("finalized vaa", req.FinalizedVaa)
	if err != nil {
		return nil, err
	}
	cctpMessage, err := parseBytes("cctp message", req.CctpMessage)
	if err != nil {
		return nil, err
	}
	attestation, err := parseBytes("cctp attestation", req.CctpAttestation)
	if err != nil {
		return nil, err
	}
	return &application.PrepareOrderResponseArgs{
		FastVaa:         fastVaa,
		FinalizedVaa:    finalizedVaa,
		CctpMessage:     cctpMessage,
		CctpAttestation: attestation,
	}, nil
}

func settleResponse(reply *application.SettleReply) *api.SettleAuctionResponse {
	return &api.SettleAuctionResponse{
		Auction:    auctionInfo(*reply.Auction).toApi(),
		Payouts:    payoutList(reply.Payouts).toApi(),
		UserAmount: reply.UserAmount,
		Sequence:   reply.Sequence,
	}
}
