package api

import (
	"context"

	"google.golang.org/grpc"
)

const (
	AdminServiceName       = "mengine.v1.AdminService"
	AuctionServiceName     = "mengine.v1.AuctionService"
	SettlementServiceName  = "mengine.v1.SettlementService"
	TokenRouterServiceName = "mengine.v1.TokenRouterService"
	AccountServiceName     = "mengine.v1.AccountService"
	WebhookServiceName     = "mengine.v1.WebhookService"
)

// FullMethod returns the gRPC path of a method.
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

type AdminServiceServer interface {
	Initialize(context.Context, *InitializeRequest) (*InitializeResponse, error)
	SetPause(context.Context, *SetPauseRequest) (*SetPauseResponse, error)
	SubmitOwnershipTransfer(context.Context, *SubmitOwnershipTransferRequest) (*SubmitOwnershipTransferResponse, error)
	ConfirmOwnershipTransfer(context.Context, *ConfirmOwnershipTransferRequest) (*ConfirmOwnershipTransferResponse, error)
	CancelOwnershipTransfer(context.Context, *CancelOwnershipTransferRequest) (*CancelOwnershipTransferResponse, error)
	UpdateOwnerAssistant(context.Context, *UpdateOwnerAssistantRequest) (*UpdateOwnerAssistantResponse, error)
	UpdateFeeRecipient(context.Context, *UpdateFeeRecipientRequest) (*UpdateFeeRecipientResponse, error)
	AddRouterEndpoint(context.Context, *AddRouterEndpointRequest) (*AddRouterEndpointResponse, error)
	UpdateRouterEndpoint(context.Context, *UpdateRouterEndpointRequest) (*UpdateRouterEndpointResponse, error)
	DisableRouterEndpoint(context.Context, *DisableRouterEndpointRequest) (*DisableRouterEndpointResponse, error)
	GetRouterEndpoint(context.Context, *GetRouterEndpointRequest) (*GetRouterEndpointResponse, error)
	ListRouterEndpoints(context.Context, *ListRouterEndpointsRequest) (*ListRouterEndpointsResponse, error)
	ProposeAuctionParameters(context.Context, *ProposeAuctionParametersRequest) (*ProposeAuctionParametersResponse, error)
	UpdateAuctionParameters(context.Context, *UpdateAuctionParametersRequest) (*UpdateAuctionParametersResponse, error)
	CloseProposal(context.Context, *CloseProposalRequest) (*CloseProposalResponse, error)
	GetProposal(context.Context, *GetProposalRequest) (*GetProposalResponse, error)
	ListProposals(context.Context, *ListProposalsRequest) (*ListProposalsResponse, error)
	GetCustodian(context.Context, *GetCustodianRequest) (*GetCustodianResponse, error)
	GetAuctionConfig(context.Context, *GetAuctionConfigRequest) (*GetAuctionConfigResponse, error)
}

type AuctionServiceServer interface {
	PlaceInitialOffer(context.Context, *PlaceInitialOfferRequest) (*PlaceInitialOfferResponse, error)
	ImproveOffer(context.Context, *ImproveOfferRequest) (*ImproveOfferResponse, error)
	ExecuteFastOrder(context.Context, *ExecuteFastOrderRequest) (*ExecuteFastOrderResponse, error)
	GetAuction(context.Context, *GetAuctionRequest) (*GetAuctionResponse, error)
	ListAuctions(context.Context, *ListAuctionsRequest) (*ListAuctionsResponse, error)
}

type SettlementServiceServer interface {
	PrepareOrderResponse(context.Context, *PrepareOrderResponseRequest) (*PrepareOrderResponseResponse, error)
	SettleAuctionComplete(context.Context, *SettleAuctionCompleteRequest) (*SettleAuctionResponse, error)
	SettleAuctionNoneCctp(context.Context, *SettleAuctionNoneRequest) (*SettleAuctionResponse, error)
	SettleAuctionNoneLocal(context.Context, *SettleAuctionNoneRequest) (*SettleAuctionResponse, error)
	GetPreparedOrderResponse(context.Context, *GetPreparedOrderResponseRequest) (*GetPreparedOrderResponseResponse, error)
}

type TokenRouterServiceServer interface {
	RedeemFastFill(context.Context, *RedeemFastFillRequest) (*RedeemFastFillResponse, error)
	GetRedeemedFastFill(context.Context, *GetRedeemedFastFillRequest) (*GetRedeemedFastFillResponse, error)
	GetPublishedMessage(context.Context, *GetPublishedMessageRequest) (*GetPublishedMessageResponse, error)
}

type AccountServiceServer interface {
	OpenTokenAccount(context.Context, *OpenTokenAccountRequest) (*OpenTokenAccountResponse, error)
	GetTokenAccount(context.Context, *GetTokenAccountRequest) (*GetTokenAccountResponse, error)
	Transfer(context.Context, *TransferRequest) (*TransferResponse, error)
	Mint(context.Context, *MintRequest) (*MintResponse, error)
}

type WebhookServiceServer interface {
	AddWebhook(context.Context, *AddWebhookRequest) (*AddWebhookResponse, error)
	RemoveWebhook(context.Context, *RemoveWebhookRequest) (*RemoveWebhookResponse, error)
	ListWebhooks(context.Context, *ListWebhooksRequest) (*ListWebhooksResponse, error)
}

var AdminServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(AdminServiceName, "Initialize", AdminServiceServer.Initialize),
		unaryMethod(AdminServiceName, "SetPause", AdminServiceServer.SetPause),
		unaryMethod(AdminServiceName, "SubmitOwnershipTransfer", AdminServiceServer.SubmitOwnershipTransfer),
		unaryMethod(AdminServiceName, "ConfirmOwnershipTransfer", AdminServiceServer.ConfirmOwnershipTransfer),
		unaryMethod(AdminServiceName, "CancelOwnershipTransfer", AdminServiceServer.CancelOwnershipTransfer),
		unaryMethod(AdminServiceName, "UpdateOwnerAssistant", AdminServiceServer.UpdateOwnerAssistant),
		unaryMethod(AdminServiceName, "UpdateFeeRecipient", AdminServiceServer.UpdateFeeRecipient),
		unaryMethod(AdminServiceName, "AddRouterEndpoint", AdminServiceServer.AddRouterEndpoint),
		unaryMethod(AdminServiceName, "UpdateRouterEndpoint", AdminServiceServer.UpdateRouterEndpoint),
		unaryMethod(AdminServiceName, "DisableRouterEndpoint", AdminServiceServer.DisableRouterEndpoint),
		unaryMethod(AdminServiceName, "GetRouterEndpoint", AdminServiceServer.GetRouterEndpoint),
		unaryMethod(AdminServiceName, "ListRouterEndpoints", AdminServiceServer.ListRouterEndpoints),
		unaryMethod(AdminServiceName, "ProposeAuctionParameters", AdminServiceServer.ProposeAuctionParameters),
		unaryMethod(AdminServiceName, "UpdateAuctionParameters", AdminServiceServer.UpdateAuctionParameters),
		unaryMethod(AdminServiceName, "CloseProposal", AdminServiceServer.CloseProposal),
		unaryMethod(AdminServiceName, "GetProposal", AdminServiceServer.GetProposal),
		unaryMethod(AdminServiceName, "ListProposals", AdminServiceServer.ListProposals),
		unaryMethod(AdminServiceName, "GetCustodian", AdminServiceServer.GetCustodian),
		unaryMethod(AdminServiceName, "GetAuctionConfig", AdminServiceServer.GetAuctionConfig),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mengine/v1/admin.json",
}

var AuctionServiceDesc = grpc.ServiceDesc{
	ServiceName: AuctionServiceName,
	HandlerType: (*AuctionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(AuctionServiceName, "PlaceInitialOffer", AuctionServiceServer.PlaceInitialOffer),
		unaryMethod(AuctionServiceName, "ImproveOffer", AuctionServiceServer.ImproveOffer),
		unaryMethod(AuctionServiceName, "ExecuteFastOrder", AuctionServiceServer.ExecuteFastOrder),
		unaryMethod(AuctionServiceName, "GetAuction", AuctionServiceServer.GetAuction),
		unaryMethod(AuctionServiceName, "ListAuctions", AuctionServiceServer.ListAuctions),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mengine/v1/auction.json",
}

var SettlementServiceDesc = grpc.ServiceDesc{
	ServiceName: SettlementServiceName,
	HandlerType: (*SettlementServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(SettlementServiceName, "PrepareOrderResponse", SettlementServiceServer.PrepareOrderResponse),
		unaryMethod(SettlementServiceName, "SettleAuctionComplete", SettlementServiceServer.SettleAuctionComplete),
		unaryMethod(SettlementServiceName, "SettleAuctionNoneCctp", SettlementServiceServer.SettleAuctionNoneCctp),
		unaryMethod(SettlementServiceName, "SettleAuctionNoneLocal", SettlementServiceServer.SettleAuctionNoneLocal),
		unaryMethod(SettlementServiceName, "GetPreparedOrderResponse", SettlementServiceServer.GetPreparedOrderResponse),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mengine/v1/settlement.json",
}

var TokenRouterServiceDesc = grpc.ServiceDesc{
	ServiceName: TokenRouterServiceName,
	HandlerType: (*TokenRouterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(TokenRouterServiceName, "RedeemFastFill", TokenRouterServiceServer.RedeemFastFill),
		unaryMethod(TokenRouterServiceName, "GetRedeemedFastFill", TokenRouterServiceServer.GetRedeemedFastFill),
		unaryMethod(TokenRouterServiceName, "GetPublishedMessage", TokenRouterServiceServer.GetPublishedMessage),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mengine/v1/token_router.json",
}

var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(AccountServiceName, "OpenTokenAccount", AccountServiceServer.OpenTokenAccount),
		unaryMethod(AccountServiceName, "GetTokenAccount", AccountServiceServer.GetTokenAccount),
		unaryMethod(AccountServiceName, "Transfer", AccountServiceServer.Transfer),
		unaryMethod(AccountServiceName, "Mint", AccountServiceServer.Mint),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mengine/v1/account.json",
}

var WebhookServiceDesc = grpc.ServiceDesc{
	ServiceName: WebhookServiceName,
	HandlerType: (*WebhookServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(WebhookServiceName, "AddWebhook", WebhookServiceServer.AddWebhook),
		unaryMethod(WebhookServiceName, "RemoveWebhook", WebhookServiceServer.RemoveWebhook),
		unaryMethod(WebhookServiceName, "ListWebhooks", WebhookServiceServer.ListWebhooks),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mengine/v1/webhook.json",
}

// ServiceDescs lists every service of the engine.
var ServiceDescs = []*grpc.ServiceDesc{
	&AdminServiceDesc,
	&AuctionServiceDesc,
	&SettlementServiceDesc,
	&TokenRouterServiceDesc,
	&AccountServiceDesc,
	&WebhookServiceDesc,
}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminServiceDesc, srv)
}

func RegisterAuctionServiceServer(s grpc.ServiceRegistrar, srv AuctionServiceServer) {
	s.RegisterService(&AuctionServiceDesc, srv)
}

func RegisterSettlementServiceServer(s grpc.ServiceRegistrar, srv SettlementServiceServer) {
	s.RegisterService(&SettlementServiceDesc, srv)
}

func RegisterTokenRouterServiceServer(s grpc.ServiceRegistrar, srv TokenRouterServiceServer) {
	s.RegisterService(&TokenRouterServiceDesc, srv)
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountServiceDesc, srv)
}

func RegisterWebhookServiceServer(s grpc.ServiceRegistrar, srv WebhookServiceServer) {
	s.RegisterService(&WebhookServiceDesc, srv)
}

func unaryMethod[S any, Req any, Res any](
	service, name string, call func(S, context.Context, *Req) (*Res, error),
) grpc.MethodDesc {
	fullMethod := FullMethod(service, name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(
			srv interface{}, ctx context.Context, dec func(interface{}) error,
			interceptor grpc.UnaryServerInterceptor,
		) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
