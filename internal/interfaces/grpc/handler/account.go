package grpchandler

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/pkg/api"
)

type accountHandler struct {
	accountSvc application.AccountService
}

// NewAccountHandler is a constructor function returning an
// AccountServiceServer.
func NewAccountHandler(accountSvc application.AccountService) api.AccountServiceServer {
	return &accountHandler{accountSvc}
}

func (h *accountHandler) OpenTokenAccount(
	ctx context.Context, req *api.OpenTokenAccountRequest,
) (*api.OpenTokenAccountResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	address, err := parseAddress("address", req.Address)
	if err != nil {
		return nil, invalidArgument(err)
	}
	account, err := h.accountSvc.OpenTokenAccount(
		ctx, signer, application.OpenTokenAccountArgs{Address: address},
	)
	if err != nil {
		return nil, err
	}
	return &api.OpenTokenAccountResponse{Account: tokenAccountInfo(*account).toApi()}, nil
}

func (h *accountHandler) GetTokenAccount(
	ctx context.Context, req *api.GetTokenAccountRequest,
) (*api.GetTokenAccountResponse, error) {
	address, err := parseAddress("address", req.Address)
	if err != nil {
		return nil, invalidArgument(err)
	}
	account, err := h.accountSvc.GetTokenAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	return &api.GetTokenAccountResponse{Account: tokenAccountInfo(*account).toApi()}, nil
}

func (h *accountHandler) Transfer(
	ctx context.Context, req *api.TransferRequest,
) (*api.TransferResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	from, err := parseAddress("source account", req.From)
	if err != nil {
		return nil, invalidArgument(err)
	}
	to, err := parseAddress("destination account", req.To)
	if err != nil {
		return nil, invalidArgument(err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, invalidArgument(err)
	}

	if err := h.accountSvc.Transfer(ctx, signer, application.TransferArgs{
		From: from, To: to, Amount: amount,
	}); err != nil {
		return nil, err
	}
	return &api.TransferResponse{}, nil
}

func (h *accountHandler) Mint(
	ctx context.Context, req *api.MintRequest,
) (*api.MintResponse, error) {
	signer, err := signerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	to, err := parseAddress("destination account", req.To)
	if err != nil {
		return nil, invalidArgument(err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, invalidArgument(err)
	}

	if err := h.accountSvc.Mint(ctx, signer, application.MintArgs{
		To: to, Amount: amount,
	}); err != nil {
		return nil, err
	}
	return &api.MintResponse{}, nil
}
