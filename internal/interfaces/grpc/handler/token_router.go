package grpchandler

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/pkg/api"
)

type tokenRouterHandler struct {
	routerSvc application.TokenRouterService
}

// NewTokenRouterHandler is a constructor function returning a
// TokenRouterServiceServer.
func NewTokenRouterHandler(
	routerSvc application.TokenRouterService,
) api.TokenRouterServiceServer {
	return &tokenRouterHandler{routerSvc}
}

func (h *tokenRouterHandler) RedeemFastFill(
	ctx context.Context, req *api.RedeemFastFillRequest,
) (*api.RedeemFastFillResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	vaa, err := parseBytes("vaa", req.Vaa)
	if err != nil {
		return nil, invalidArgument(err)
	}
	destination, err := parseAddress("destination token", req.DestinationToken)
	if err != nil {
		return nil, invalidArgument(err)
	}

	fill, err := h.routerSvc.RedeemFastFill(ctx, signer, application.RedeemFastFillArgs{
		Vaa:              vaa,
		DestinationToken: destination,
	})
	if err != nil {
		return nil, err
	}
	return &api.RedeemFastFillResponse{
		RedeemedFastFill: redeemedFastFillInfo(*fill).toApi(),
	}, nil
}

func (h *tokenRouterHandler) GetRedeemedFastFill(
	ctx context.Context, req *api.GetRedeemedFastFillRequest,
) (*api.GetRedeemedFastFillResponse, error) {
	vaaHash, err := parseHash("vaa hash", req.VaaHash)
	if err != nil {
		return nil, invalidArgument(err)
	}
	fill, err := h.routerSvc.GetRedeemedFastFill(ctx, vaaHash)
	if err != nil {
		return nil, err
	}
	return &api.GetRedeemedFastFillResponse{
		RedeemedFastFill: redeemedFastFillInfo(*fill).toApi(),
	}, nil
}

func (h *tokenRouterHandler) GetPublishedMessage(
	ctx context.Context, req *api.GetPublishedMessageRequest,
) (*api.GetPublishedMessageResponse, error) {
	vaa, err := h.routerSvc.GetPublishedMessage(ctx, req.Sequence)
	if err != nil {
		return nil, err
	}
	return &api.GetPublishedMessageResponse{Vaa: vaa}, nil
}
