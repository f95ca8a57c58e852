package api

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Admin service.

type InitializeRequest struct {
	OwnerAssistant    string            `json:"owner_assistant"`
	FeeRecipientToken string            `json:"fee_recipient_token"`
	AuctionParameters AuctionParameters `json:"auction_parameters"`
}
type InitializeResponse struct{}

type SetPauseRequest struct {
	Paused bool `json:"paused"`
}
type SetPauseResponse struct{}

type SubmitOwnershipTransferRequest struct {
	NewOwner string `json:"new_owner"`
}
type SubmitOwnershipTransferResponse struct{}

type ConfirmOwnershipTransferRequest struct{}
type ConfirmOwnershipTransferResponse struct{}

type CancelOwnershipTransferRequest struct{}
type CancelOwnershipTransferResponse struct{}

type UpdateOwnerAssistantRequest struct {
	NewAssistant string `json:"new_assistant"`
}
type UpdateOwnerAssistantResponse struct{}

type UpdateFeeRecipientRequest struct {
	NewFeeRecipientToken string `json:"new_fee_recipient_token"`
}
type UpdateFeeRecipientResponse struct{}

type AddRouterEndpointRequest struct {
	Endpoint RouterEndpoint `json:"endpoint"`
}
type AddRouterEndpointResponse struct {
	Endpoint RouterEndpoint `json:"endpoint"`
}

type UpdateRouterEndpointRequest struct {
	Endpoint RouterEndpoint `json:"endpoint"`
}
type UpdateRouterEndpointResponse struct {
	Endpoint RouterEndpoint `json:"endpoint"`
}

type DisableRouterEndpointRequest struct {
	Chain uint16 `json:"chain"`
}
type DisableRouterEndpointResponse struct{}

type GetRouterEndpointRequest struct {
	Chain uint16 `json:"chain"`
}
type GetRouterEndpointResponse struct {
	Endpoint RouterEndpoint `json:"endpoint"`
}

type ListRouterEndpointsRequest struct{}
type ListRouterEndpointsResponse struct {
	Endpoints []RouterEndpoint `json:"endpoints"`
}

type ProposeAuctionParametersRequest struct {
	Parameters AuctionParameters `json:"parameters"`
}
type ProposeAuctionParametersResponse struct {
	Proposal Proposal `json:"proposal"`
}

type UpdateAuctionParametersRequest struct {
	ProposalID uint64 `json:"proposal_id"`
}
type UpdateAuctionParametersResponse struct {
	Config AuctionConfig `json:"config"`
}

type CloseProposalRequest struct {
	ProposalID uint64 `json:"proposal_id"`
}
type CloseProposalResponse struct{}

type GetProposalRequest struct {
	ProposalID uint64 `json:"proposal_id"`
}
type GetProposalResponse struct {
	Proposal Proposal `json:"proposal"`
}

type ListProposalsRequest struct{}
type ListProposalsResponse struct {
	Proposals []Proposal `json:"proposals"`
}

type GetCustodianRequest struct{}
type GetCustodianResponse struct {
	Custodian Custodian `json:"custodian"`
}

// GetAuctionConfigRequest returns the active config if ID is not set.
type GetAuctionConfigRequest struct {
	ID *uint32 `json:"id,omitempty"`
}
type GetAuctionConfigResponse struct {
	Config AuctionConfig `json:"config"`
}

// Auction service.

type PlaceInitialOfferRequest struct {
	FastVaa    hexutil.Bytes `json:"fast_vaa"`
	OfferPrice uint64        `json:"offer_price"`
	OfferToken string        `json:"offer_token"`
}
type PlaceInitialOfferResponse struct {
	Auction Auction `json:"auction"`
}

type ImproveOfferRequest struct {
	FastVaaHash    string `json:"fast_vaa_hash"`
	OfferPrice     uint64 `json:"offer_price"`
	OfferToken     string `json:"offer_token"`
	BestOfferToken string `json:"best_offer_token"`
}
type ImproveOfferResponse struct {
	Auction Auction `json:"auction"`
}

type ExecuteFastOrderRequest struct {
	FastVaa       hexutil.Bytes `json:"fast_vaa"`
	ExecutorToken string        `json:"executor_token"`
}
type ExecuteFastOrderResponse struct {
	Auction    Auction `json:"auction"`
	UserAmount uint64  `json:"user_amount"`
	Penalty    uint64  `json:"penalty"`
	UserReward uint64  `json:"user_reward"`
	Sequence   uint64  `json:"sequence"`
}

type GetAuctionRequest struct {
	VaaHash string `json:"vaa_hash"`
}
type GetAuctionResponse struct {
	Auction Auction `json:"auction"`
}

// ListAuctionsRequest lists the auctions waiting for execution if Status is
// empty.
type ListAuctionsRequest struct {
	Status string `json:"status,omitempty"`
}
type ListAuctionsResponse struct {
	Auctions []Auction `json:"auctions"`
}

// Settlement service.

type PrepareOrderResponseRequest struct {
	FastVaa         hexutil.Bytes `json:"fast_vaa"`
	FinalizedVaa    hexutil.Bytes `json:"finalized_vaa"`
	CctpMessage     hexutil.Bytes `json:"cctp_message"`
	CctpAttestation hexutil.Bytes `json:"cctp_attestation"`
}
type PrepareOrderResponseResponse struct {
	PreparedOrderResponse PreparedOrderResponse `json:"prepared_order_response"`
}

type SettleAuctionCompleteRequest struct {
	FastVaaHash    string `json:"fast_vaa_hash"`
	ExecutorToken  string `json:"executor_token"`
	BestOfferToken string `json:"best_offer_token"`
}

// SettleAuctionNoneRequest prepares the order response in the same call if
// Prepare is set.
type SettleAuctionNoneRequest struct {
	FastVaaHash       string                       `json:"fast_vaa_hash"`
	FeeRecipientToken string                       `json:"fee_recipient_token"`
	Prepare           *PrepareOrderResponseRequest `json:"prepare,omitempty"`
}

type SettleAuctionResponse struct {
	Auction    Auction  `json:"auction"`
	Payouts    []Payout `json:"payouts"`
	UserAmount uint64   `json:"user_amount,omitempty"`
	Sequence   uint64   `json:"sequence,omitempty"`
}

type GetPreparedOrderResponseRequest struct {
	FastVaaHash string `json:"fast_vaa_hash"`
}
type GetPreparedOrderResponseResponse struct {
	PreparedOrderResponse PreparedOrderResponse `json:"prepared_order_response"`
}

// Token router service.

type RedeemFastFillRequest struct {
	Vaa              hexutil.Bytes `json:"vaa"`
	DestinationToken string        `json:"destination_token"`
}
type RedeemFastFillResponse struct {
	RedeemedFastFill RedeemedFastFill `json:"redeemed_fast_fill"`
}

type GetRedeemedFastFillRequest struct {
	VaaHash string `json:"vaa_hash"`
}
type GetRedeemedFastFillResponse struct {
	RedeemedFastFill RedeemedFastFill `json:"redeemed_fast_fill"`
}

type GetPublishedMessageRequest struct {
	Sequence uint64 `json:"sequence"`
}
type GetPublishedMessageResponse struct {
	Vaa hexutil.Bytes `json:"vaa"`
}

// Account service.

type OpenTokenAccountRequest struct {
	Address string `json:"address"`
}
type OpenTokenAccountResponse struct {
	Account TokenAccount `json:"account"`
}

type GetTokenAccountRequest struct {
	Address string `json:"address"`
}
type GetTokenAccountResponse struct {
	Account TokenAccount `json:"account"`
}

type TransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}
type TransferResponse struct{}

type MintRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}
type MintResponse struct{}

// Webhook service.

type AddWebhookRequest struct {
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret,omitempty"`
}
type AddWebhookResponse struct {
	Id string `json:"id"`
}

type RemoveWebhookRequest struct {
	Id string `json:"id"`
}
type RemoveWebhookResponse struct{}

type ListWebhooksRequest struct {
	Topic string `json:"topic"`
}
type ListWebhooksResponse struct {
	Webhooks []Webhook `json:"webhooks"`
}
