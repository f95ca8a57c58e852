package grpchandler

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/pkg/api"
)

type adminHandler struct {
	adminSvc application.AdminService
}

// NewAdminHandler is a constructor function returning an AdminServiceServer.
func NewAdminHandler(adminSvc application.AdminService) api.AdminServiceServer {
	return &adminHandler{adminSvc}
}

func (h *adminHandler) Initialize(
	ctx context.Context, req *api.InitializeRequest,
) (*api.InitializeResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	assistant, err := parseAddress("owner assistant", req.OwnerAssistant)
	if err != nil {
		return nil, invalidArgument(err)
	}
	feeRecipient, err := parseAddress("fee recipient token", req.FeeRecipientToken)
	if err != nil {
		return nil, invalidArgument(err)
	}

	if err := h.adminSvc.Initialize(ctx, signer, application.InitializeArgs{
		OwnerAssistant:    assistant,
		FeeRecipientToken: feeRecipient,
		AuctionParameters: parseAuctionParameters(req.AuctionParameters),
	}); err != nil {
		return nil, err
	}
	return &api.InitializeResponse{}, nil
}

func (h *adminHandler) SetPause(
	ctx context.Context, req *api.SetPauseRequest,
) (*api.SetPauseResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.adminSvc.SetPause(ctx, signer, req.Paused); err != nil {
		return nil, err
	}
	return &api.SetPauseResponse{}, nil
}

func (h *adminHandler) SubmitOwnershipTransfer(
	ctx context.Context, req *api.SubmitOwnershipTransferRequest,
) (*api.SubmitOwnershipTransferResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	newOwner, err := parseAddress("new owner", req.NewOwner)
	if err != nil {
		return nil, invalidArgument(err)
	}
	if err := h.adminSvc.SubmitOwnershipTransferRequest(
		ctx, signer, newOwner,
	); err != nil {
		return nil, err
	}
	return &api.SubmitOwnershipTransferResponse{}, nil
}

func (h *adminHandler) ConfirmOwnershipTransfer(
	ctx context.Context, _ *api.ConfirmOwnershipTransferRequest,
) (*api.ConfirmOwnershipTransferResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.adminSvc.ConfirmOwnershipTransferRequest(ctx, signer); err != nil {
		return nil, err
	}
	return &api.ConfirmOwnershipTransferResponse{}, nil
}

func (h *adminHandler) CancelOwnershipTransfer(
	ctx context.Context, _ *api.CancelOwnershipTransferRequest,
) (*api.CancelOwnershipTransferResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.adminSvc.CancelOwnershipTransferRequest(ctx, signer); err != nil {
		return nil, err
	}
	return &api.CancelOwnershipTransferResponse{}, nil
}

func (h *adminHandler) UpdateOwnerAssistant(
	ctx context.Context, req *api.UpdateOwnerAssistantRequest,
) (*api.UpdateOwnerAssistantResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	assistant, err := parseAddress("new assistant", req.NewAssistant)
	if err != nil {
		return nil, invalidArgument(err)
	}
	if err := h.adminSvc.UpdateOwnerAssistant(ctx, signer, assistant); err != nil {
		return nil, err
	}
	return &api.UpdateOwnerAssistantResponse{}, nil
}

func (h *adminHandler) UpdateFeeRecipient(
	ctx context.Context, req *api.UpdateFeeRecipientRequest,
) (*api.UpdateFeeRecipientResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	feeRecipient, err := parseAddress(
		"new fee recipient token", req.NewFeeRecipientToken,
	)
	if err != nil {
		return nil, invalidArgument(err)
	}
	if err := h.adminSvc.UpdateFeeRecipient(ctx, signer, feeRecipient); err != nil {
		return nil, err
	}
	return &api.UpdateFeeRecipientResponse{}, nil
}

func (h *adminHandler) AddRouterEndpoint(
	ctx context.Context, req *api.AddRouterEndpointRequest,
) (*api.AddRouterEndpointResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	args, err := parseRouterEndpoint(req.Endpoint)
	if err != nil {
		return nil, invalidArgument(err)
	}
	endpoint, err := h.adminSvc.AddRouterEndpoint(ctx, signer, *args)
	if err != nil {
		return nil, err
	}
	return &api.AddRouterEndpointResponse{
		Endpoint: routerEndpointInfo(*endpoint).toApi(),
	}, nil
}

func (h *adminHandler) UpdateRouterEndpoint(
	ctx context.Context, req *api.UpdateRouterEndpointRequest,
) (*api.UpdateRouterEndpointResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	args, err := parseRouterEndpoint(req.Endpoint)
	if err != nil {
		return nil, invalidArgument(err)
	}
	endpoint, err := h.adminSvc.UpdateRouterEndpoint(ctx, signer, *args)
	if err != nil {
		return nil, err
	}
	return &api.UpdateRouterEndpointResponse{
		Endpoint: routerEndpointInfo(*endpoint).toApi(),
	}, nil
}

func (h *adminHandler) DisableRouterEndpoint(
	ctx context.Context, req *api.DisableRouterEndpointRequest,
) (*api.DisableRouterEndpointResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	chain, err := parseChain(req.Chain)
	if err != nil {
		return nil, invalidArgument(err)
	}
	if err := h.adminSvc.DisableRouterEndpoint(ctx, signer, chain); err != nil {
		return nil, err
	}
	return &api.DisableRouterEndpointResponse{}, nil
}

func (h *adminHandler) GetRouterEndpoint(
	ctx context.Context, req *api.GetRouterEndpointRequest,
) (*api.GetRouterEndpointResponse, error) {
	chain, err := parseChain(req.Chain)
	if err != nil {
		return nil, invalidArgument(err)
	}
	endpoint, err := h.adminSvc.GetRouterEndpoint(ctx, chain)
	if err != nil {
		return nil, err
	}
	return &api.GetRouterEndpointResponse{
		Endpoint: routerEndpointInfo(*endpoint).toApi(),
	}, nil
}

func (h *adminHandler) ListRouterEndpoints(
	ctx context.Context, _ *api.ListRouterEndpointsRequest,
) (*api.ListRouterEndpointsResponse, error) {
	endpoints, err := h.adminSvc.ListRouterEndpoints(ctx)
	if err != nil {
		return nil, err
	}
	return &api.ListRouterEndpointsResponse{
		Endpoints: routerEndpointList(endpoints).toApi(),
	}, nil
}

func (h *adminHandler) ProposeAuctionParameters(
	ctx context.Context, req *api.ProposeAuctionParametersRequest,
) (*api.ProposeAuctionParametersResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	proposal, err := h.adminSvc.ProposeAuctionParameters(
		ctx, signer, parseAuctionParameters(req.Parameters),
	)
	if err != nil {
		return nil, err
	}
	return &api.ProposeAuctionParametersResponse{
		Proposal: proposalInfo(*proposal).toApi(),
	}, nil
}

func (h *adminHandler) UpdateAuctionParameters(
	ctx context.Context, req *api.UpdateAuctionParametersRequest,
) (*api.UpdateAuctionParametersResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	config, err := h.adminSvc.UpdateAuctionParameters(ctx, signer, req.ProposalID)
	if err != nil {
		return nil, err
	}
	return &api.UpdateAuctionParametersResponse{
		Config: auctionConfigInfo(*config).toApi(),
	}, nil
}

func (h *adminHandler) CloseProposal(
	ctx context.Context, req *api.CloseProposalRequest,
) (*api.CloseProposalResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.adminSvc.CloseProposal(ctx, signer, req.ProposalID); err != nil {
		return nil, err
	}
	return &api.CloseProposalResponse{}, nil
}

func (h *adminHandler) GetProposal(
	ctx context.Context, req *api.GetProposalRequest,
) (*api.GetProposalResponse, error) {
	proposal, err := h.adminSvc.GetProposal(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	return &api.GetProposalResponse{Proposal: proposalInfo(*proposal).toApi()}, nil
}

func (h *adminHandler) ListProposals(
	ctx context.Context, _ *api.ListProposalsRequest,
) (*api.ListProposalsResponse, error) {
	proposals, err := h.adminSvc.ListProposals(ctx)
	if err != nil {
		return nil, err
	}
	return &api.ListProposalsResponse{Proposals: proposalList(proposals).toApi()}, nil
}

func (h *adminHandler) GetCustodian(
	ctx context.Context, _ *api.GetCustodianRequest,
) (*api.GetCustodianResponse, error) {
	custodian, err := h.adminSvc.GetCustodian(ctx)
	if err != nil {
		return nil, err
	}
	return &api.GetCustodianResponse{Custodian: custodianInfo(*custodian).toApi()}, nil
}

func (h *adminHandler) GetAuctionConfig(
	ctx context.Context, req *api.GetAuctionConfigRequest,
) (*api.GetAuctionConfigResponse, error) {
	var (
		config *domain.AuctionConfig
		err    error
	)
	if req.ID == nil {
		config, err = h.adminSvc.GetActiveAuctionConfig(ctx)
	} else {
		config, err = h.adminSvc.GetAuctionConfig(ctx, *req.ID)
	}
	if err != nil {
		return nil, err
	}
	return &api.GetAuctionConfigResponse{Config: auctionConfigInfo(*config).toApi()}, nil
}

func parseRouterEndpoint(e api.RouterEndpoint) (*application.RouterEndpointArgs, error) {
	chain, err := parseChain(e.Chain)
	if err != nil {
		return nil, err
	}
	address, err := parseAddress("endpoint address", e.Address)
	if err != nil {
		return nil, err
	}
	mintRecipient, err := parseAddress("mint recipient", e.MintRecipient)
	if err != nil {
		return nil, err
	}
	protocol, err := parseProtocol(e)
	if err != nil {
		return nil, err
	}
	return &application.RouterEndpointArgs{
		Chain:         chain,
		Address:       address,
		MintRecipient: mintRecipient,
		Protocol:      protocol,
	}, nil
}
