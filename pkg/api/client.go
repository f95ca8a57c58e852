package api

import (
	"context"
	"crypto/tls"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// maxMsgRecvSize is the largest message the client will receive.
var maxMsgRecvSize = grpc.MaxCallRecvMsgSize(1 * 1024 * 1024 * 200)

// ClientOpts ...
type ClientOpts struct {
	Address string
	// Token is the bearer token sent with every call, if any.
	Token string
	// TLSCert is the path of the certificate of the daemon. If empty the
	// connection is plaintext.
	TLSCert string
	// InsecureSkipVerify accepts any certificate when TLS is enabled.
	InsecureSkipVerify bool
}

// Client is a client for all the services of the engine daemon.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient dials the daemon at the given address.
func NewClient(opts ClientOpts) (*Client, error) {
	if opts.Address == "" {
		return nil, fmt.Errorf("missing daemon address")
	}

	withTLS := opts.TLSCert != "" || opts.InsecureSkipVerify
	dialOpts := []grpc.DialOption{
		grpc.WithDefaultCallOptions(maxMsgRecvSize, grpc.CallContentSubtype(CodecName)),
	}
	switch {
	case opts.TLSCert != "":
		creds, err := credentials.NewClientTLSFromFile(opts.TLSCert, "")
		if err != nil {
			return nil, fmt.Errorf("loading tls cert: %w", err)
		}
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(creds))
	case opts.InsecureSkipVerify:
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(
			// #nosec
			credentials.NewTLS(&tls.Config{InsecureSkipVerify: true}),
		))
	default:
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	if opts.Token != "" {
		dialOpts = append(dialOpts, grpc.WithPerRPCCredentials(
			tokenCredentials{token: opts.Token, withTLS: withTLS},
		))
	}

	conn, err := grpc.Dial(opts.Address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %w", err)
	}
	return &Client{conn}, nil
}

// NewClientFromConn wraps an existing connection. The connection must
// use the json content subtype.
func NewClientFromConn(conn *grpc.ClientConn) *Client {
	return &Client{conn}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func invoke[Req any, Res any](
	ctx context.Context, c *Client, service, method string, req *Req,
) (*Res, error) {
	res := new(Res)
	if err := c.conn.Invoke(
		ctx, FullMethod(service, method), req, res,
		grpc.CallContentSubtype(CodecName),
	); err != nil {
		return nil, err
	}
	return res, nil
}

// Admin service.

func (c *Client) Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error) {
	return invoke[InitializeRequest, InitializeResponse](ctx, c, AdminServiceName, "Initialize", req)
}

func (c *Client) SetPause(ctx context.Context, req *SetPauseRequest) (*SetPauseResponse, error) {
	return invoke[SetPauseRequest, SetPauseResponse](ctx, c, AdminServiceName, "SetPause", req)
}

func (c *Client) SubmitOwnershipTransfer(ctx context.Context, req *SubmitOwnershipTransferRequest) (*SubmitOwnershipTransferResponse, error) {
	return invoke[SubmitOwnershipTransferRequest, SubmitOwnershipTransferResponse](ctx, c, AdminServiceName, "SubmitOwnershipTransfer", req)
}

func (c *Client) ConfirmOwnershipTransfer(ctx context.Context, req *ConfirmOwnershipTransferRequest) (*ConfirmOwnershipTransferResponse, error) {
	return invoke[ConfirmOwnershipTransferRequest, ConfirmOwnershipTransferResponse](ctx, c, AdminServiceName, "ConfirmOwnershipTransfer", req)
}

func (c *Client) CancelOwnershipTransfer(ctx context.Context, req *CancelOwnershipTransferRequest) (*CancelOwnershipTransferResponse, error) {
	return invoke[CancelOwnershipTransferRequest, CancelOwnershipTransferResponse](ctx, c, AdminServiceName, "CancelOwnershipTransfer", req)
}

func (c *Client) UpdateOwnerAssistant(ctx context.Context, req *UpdateOwnerAssistantRequest) (*UpdateOwnerAssistantResponse, error) {
	return invoke[UpdateOwnerAssistantRequest, UpdateOwnerAssistantResponse](ctx, c, AdminServiceName, "UpdateOwnerAssistant", req)
}

func (c *Client) UpdateFeeRecipient(ctx context.Context, req *UpdateFeeRecipientRequest) (*UpdateFeeRecipientResponse, error) {
	return invoke[UpdateFeeRecipientRequest, UpdateFeeRecipientResponse](ctx, c, AdminServiceName, "UpdateFeeRecipient", req)
}

func (c *Client) AddRouterEndpoint(ctx context.Context, req *AddRouterEndpointRequest) (*AddRouterEndpointResponse, error) {
	return invoke[AddRouterEndpointRequest, AddRouterEndpointResponse](ctx, c, AdminServiceName, "AddRouterEndpoint", req)
}

func (c *Client) UpdateRouterEndpoint(ctx context.Context, req *UpdateRouterEndpointRequest) (*UpdateRouterEndpointResponse, error) {
	return invoke[UpdateRouterEndpointRequest, UpdateRouterEndpointResponse](ctx, c, AdminServiceName, "UpdateRouterEndpoint", req)
}

func (c *Client) DisableRouterEndpoint(ctx context.Context, req *DisableRouterEndpointRequest) (*DisableRouterEndpointResponse, error) {
	return invoke[DisableRouterEndpointRequest, DisableRouterEndpointResponse](ctx, c, AdminServiceName, "DisableRouterEndpoint", req)
}

func (c *Client) GetRouterEndpoint(ctx context.Context, req *GetRouterEndpointRequest) (*GetRouterEndpointResponse, error) {
	return invoke[GetRouterEndpointRequest, GetRouterEndpointResponse](ctx, c, AdminServiceName, "GetRouterEndpoint", req)
}

func (c *Client) ListRouterEndpoints(ctx context.Context, req *ListRouterEndpointsRequest) (*ListRouterEndpointsResponse, error) {
	return invoke[ListRouterEndpointsRequest, ListRouterEndpointsResponse](ctx, c, AdminServiceName, "ListRouterEndpoints", req)
}

func (c *Client) ProposeAuctionParameters(ctx context.Context, req *ProposeAuctionParametersRequest) (*ProposeAuctionParametersResponse, error) {
	return invoke[ProposeAuctionParametersRequest, ProposeAuctionParametersResponse](ctx, c, AdminServiceName, "ProposeAuctionParameters", req)
}

func (c *Client) UpdateAuctionParameters(ctx context.Context, req *UpdateAuctionParametersRequest) (*UpdateAuctionParametersResponse, error) {
	return invoke[UpdateAuctionParametersRequest, UpdateAuctionParametersResponse](ctx, c, AdminServiceName, "UpdateAuctionParameters", req)
}

func (c *Client) CloseProposal(ctx context.Context, req *CloseProposalRequest) (*CloseProposalResponse, error) {
	return invoke[CloseProposalRequest, CloseProposalResponse](ctx, c, AdminServiceName, "CloseProposal", req)
}

func (c *Client) GetProposal(ctx context.Context, req *GetProposalRequest) (*GetProposalResponse, error) {
	return invoke[GetProposalRequest, GetProposalResponse](ctx, c, AdminServiceName, "GetProposal", req)
}

func (c *Client) ListProposals(ctx context.Context, req *ListProposalsRequest) (*ListProposalsResponse, error) {
	return invoke[ListProposalsRequest, ListProposalsResponse](ctx, c, AdminServiceName, "ListProposals", req)
}

func (c *Client) GetCustodian(ctx context.Context, req *GetCustodianRequest) (*GetCustodianResponse, error) {
	return invoke[GetCustodianRequest, GetCustodianResponse](ctx, c, AdminServiceName, "GetCustodian", req)
}

func (c *Client) GetAuctionConfig(ctx context.Context, req *GetAuctionConfigRequest) (*GetAuctionConfigResponse, error) {
	return invoke[GetAuctionConfigRequest, GetAuctionConfigResponse](ctx, c, AdminServiceName, "GetAuctionConfig", req)
}

// Auction service.

func (c *Client) PlaceInitialOffer(ctx context.Context, req *PlaceInitialOfferRequest) (*PlaceInitialOfferResponse, error) {
	return invoke[PlaceInitialOfferRequest, PlaceInitialOfferResponse](ctx, c, AuctionServiceName, "PlaceInitialOffer", req)
}

func (c *Client) ImproveOffer(ctx context.Context, req *ImproveOfferRequest) (*ImproveOfferResponse, error) {
	return invoke[ImproveOfferRequest, ImproveOfferResponse](ctx, c, AuctionServiceName, "ImproveOffer", req)
}

func (c *Client) ExecuteFastOrder(ctx context.Context, req *ExecuteFastOrderRequest) (*ExecuteFastOrderResponse, error) {
	return invoke[ExecuteFastOrderRequest, ExecuteFastOrderResponse](ctx, c, AuctionServiceName, "ExecuteFastOrder", req)
}

func (c *Client) GetAuction(ctx context.Context, req *GetAuctionRequest) (*GetAuctionResponse, error) {
	return invoke[GetAuctionRequest, GetAuctionResponse](ctx, c, AuctionServiceName, "GetAuction", req)
}

func (c *Client) ListAuctions(ctx context.Context, req *ListAuctionsRequest) (*ListAuctionsResponse, error) {
	return invoke[ListAuctionsRequest, ListAuctionsResponse](ctx, c, AuctionServiceName, "ListAuctions", req)
}

// Settlement service.

func (c *Client) PrepareOrderResponse(ctx context.Context, req *PrepareOrderResponseRequest) (*PrepareOrderResponseResponse, error) {
	return invoke[PrepareOrderResponseRequest, PrepareOrderResponseResponse](ctx, c, SettlementServiceName, "PrepareOrderResponse", req)
}

func (c *Client) SettleAuctionComplete(ctx context.Context, req *SettleAuctionCompleteRequest) (*SettleAuctionResponse, error) {
	return invoke[SettleAuctionCompleteRequest, SettleAuctionResponse](ctx, c, SettlementServiceName, "SettleAuctionComplete", req)
}

func (c *Client) SettleAuctionNoneCctp(ctx context.Context, req *SettleAuctionNoneRequest) (*SettleAuctionResponse, error) {
	return invoke[SettleAuctionNoneRequest, SettleAuctionResponse](ctx, c, SettlementServiceName, "SettleAuctionNoneCctp", req)
}

func (c *Client) SettleAuctionNoneLocal(ctx context.Context, req *SettleAuctionNoneRequest) (*SettleAuctionResponse, error) {
	return invoke[SettleAuctionNoneRequest, SettleAuctionResponse](ctx, c, SettlementServiceName, "SettleAuctionNoneLocal", req)
}

func (c *Client) GetPreparedOrderResponse(ctx context.Context, req *GetPreparedOrderResponseRequest) (*GetPreparedOrderResponseResponse, error) {
	return invoke[GetPreparedOrderResponseRequest, GetPreparedOrderResponseResponse](ctx, c, SettlementServiceName, "GetPreparedOrderResponse", req)
}

// Token router service.

func (c *Client) RedeemFastFill(ctx context.Context, req *RedeemFastFillRequest) (*RedeemFastFillResponse, error) {
	return invoke[RedeemFastFillRequest, RedeemFastFillResponse](ctx, c, TokenRouterServiceName, "RedeemFastFill", req)
}

func (c *Client) GetRedeemedFastFill(ctx context.Context, req *GetRedeemedFastFillRequest) (*GetRedeemedFastFillResponse, error) {
	return invoke[GetRedeemedFastFillRequest, GetRedeemedFastFillResponse](ctx, c, TokenRouterServiceName, "GetRedeemedFastFill", req)
}

func (c *Client) GetPublishedMessage(ctx context.Context, req *GetPublishedMessageRequest) (*GetPublishedMessageResponse, error) {
	return invoke[GetPublishedMessageRequest, GetPublishedMessageResponse](ctx, c, TokenRouterServiceName, "GetPublishedMessage", req)
}

// Account service.

func (c *Client) OpenTokenAccount(ctx context.Context, req *OpenTokenAccountRequest) (*OpenTokenAccountResponse, error) {
	return invoke[OpenTokenAccountRequest, OpenTokenAccountResponse](ctx, c, AccountServiceName, "OpenTokenAccount", req)
}

func (c *Client) GetTokenAccount(ctx context.Context, req *GetTokenAccountRequest) (*GetTokenAccountResponse, error) {
	return invoke[GetTokenAccountRequest, GetTokenAccountResponse](ctx, c, AccountServiceName, "GetTokenAccount", req)
}

func (c *Client) Transfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	return invoke[TransferRequest, TransferResponse](ctx, c, AccountServiceName, "Transfer", req)
}

func (c *Client) Mint(ctx context.Context, req *MintRequest) (*MintResponse, error) {
	return invoke[MintRequest, MintResponse](ctx, c, AccountServiceName, "Mint", req)
}

// Webhook service.

func (c *Client) AddWebhook(ctx context.Context, req *AddWebhookRequest) (*AddWebhookResponse, error) {
	return invoke[AddWebhookRequest, AddWebhookResponse](ctx, c, WebhookServiceName, "AddWebhook", req)
}

func (c *Client) RemoveWebhook(ctx context.Context, req *RemoveWebhookRequest) (*RemoveWebhookResponse, error) {
	return invoke[RemoveWebhookRequest, RemoveWebhookResponse](ctx, c, WebhookServiceName, "RemoveWebhook", req)
}

func (c *Client) ListWebhooks(ctx context.Context, req *ListWebhooksRequest) (*ListWebhooksResponse, error) {
	return invoke[ListWebhooksRequest, ListWebhooksResponse](ctx, c, WebhookServiceName, "ListWebhooks", req)
}
