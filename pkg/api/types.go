// Package api defines the wire types and the gRPC services exposed by the
// matching engine daemon. Messages are JSON encoded through the codec
// registered by this package; byte fields are 0x-prefixed hex strings.
package api

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type AuctionParameters struct {
	UserPenaltyRewardBps uint32 `json:"user_penalty_reward_bps"`
	InitialPenaltyBps    uint32 `json:"initial_penalty_bps"`
	Duration             uint16 `json:"duration"`
	GracePeriod          uint16 `json:"grace_period"`
	PenaltyPeriod        uint16 `json:"penalty_period"`
	MinOfferDeltaBps     uint32 `json:"min_offer_delta_bps"`
	SecurityDepositBase  uint64 `json:"security_deposit_base"`
	SecurityDepositBps   uint32 `json:"security_deposit_bps"`
}

type AuctionConfig struct {
	ID         uint32            `json:"id"`
	Parameters AuctionParameters `json:"parameters"`
}

type Custodian struct {
	Owner             string `json:"owner"`
	PendingOwner      string `json:"pending_owner,omitempty"`
	OwnerAssistant    string `json:"owner_assistant"`
	FeeRecipientToken string `json:"fee_recipient_token"`
	Paused            bool   `json:"paused"`
	PausedSetBy       string `json:"paused_set_by"`
	AuctionConfigID   uint32 `json:"auction_config_id"`
	NextProposalID    uint64 `json:"next_proposal_id"`
}

// RouterEndpoint is the token router registered for a chain. Protocol is
// one of "none", "local" or "cctp". ProgramID is only set for local
// endpoints, Domain only for cctp ones.
type RouterEndpoint struct {
	Chain         uint16 `json:"chain"`
	Address       string `json:"address"`
	MintRecipient string `json:"mint_recipient"`
	Protocol      string `json:"protocol"`
	ProgramID     string `json:"program_id,omitempty"`
	Domain        uint32 `json:"domain,omitempty"`
}

type Proposal struct {
	ID            uint64             `json:"id"`
	Action        string             `json:"action"`
	ConfigID      uint32             `json:"config_id,omitempty"`
	Parameters    *AuctionParameters `json:"parameters,omitempty"`
	By            string             `json:"by"`
	Owner         string             `json:"owner"`
	Slot          uint64             `json:"slot"`
	EnactableSlot uint64             `json:"enactable_slot"`
	SlotEnactedAt *uint64            `json:"slot_enacted_at,omitempty"`
}

type AuctionInfo struct {
	ConfigID          uint32 `json:"config_id"`
	CustodyToken      string `json:"custody_token"`
	VaaSequence       uint64 `json:"vaa_sequence"`
	SourceChain       uint16 `json:"source_chain"`
	BestOfferToken    string `json:"best_offer_token"`
	InitialOfferToken string `json:"initial_offer_token"`
	StartSlot         uint64 `json:"start_slot"`
	AmountIn          uint64 `json:"amount_in"`
	SecurityDeposit   uint64 `json:"security_deposit"`
	OfferPrice        uint64 `json:"offer_price"`
	AmountOut         uint64 `json:"amount_out"`
}

type CompletedStatus struct {
	Slot           uint64  `json:"slot"`
	ExecutePenalty *uint64 `json:"execute_penalty,omitempty"`
	ExecutorToken  string  `json:"executor_token"`
}

type SettledStatus struct {
	Fee          uint64  `json:"fee"`
	TotalPenalty *uint64 `json:"total_penalty,omitempty"`
}

type AuctionStatus struct {
	Code      string           `json:"code"`
	Completed *CompletedStatus `json:"completed,omitempty"`
	Settled   *SettledStatus   `json:"settled,omitempty"`
}

type Auction struct {
	VaaHash        string         `json:"vaa_hash"`
	VaaTimestamp   uint32         `json:"vaa_timestamp"`
	TargetProtocol RouterProtocol `json:"target_protocol"`
	Status         AuctionStatus  `json:"status"`
	Info           *AuctionInfo   `json:"info,omitempty"`
}

// RouterProtocol is the transport funds take towards a target router.
type RouterProtocol struct {
	Type      string `json:"type"`
	ProgramID string `json:"program_id,omitempty"`
	Domain    uint32 `json:"domain,omitempty"`
}

type PreparedOrderResponse struct {
	FastVaaHash      string        `json:"fast_vaa_hash"`
	FastVaaTimestamp uint32        `json:"fast_vaa_timestamp"`
	PreparedBy       string        `json:"prepared_by"`
	SourceChain      uint16        `json:"source_chain"`
	BaseFee          uint64        `json:"base_fee"`
	CustodyToken     string        `json:"custody_token"`
	AmountIn         uint64        `json:"amount_in"`
	InitAuctionFee   uint64        `json:"init_auction_fee"`
	TargetChain      uint16        `json:"target_chain"`
	Sender           string        `json:"sender"`
	Redeemer         string        `json:"redeemer"`
	RedeemerMessage  hexutil.Bytes `json:"redeemer_message,omitempty"`
}

type Payout struct {
	Token  string `json:"token"`
	Amount uint64 `json:"amount"`
}

type RedeemedFastFill struct {
	VaaHash  string `json:"vaa_hash"`
	Sequence uint64 `json:"sequence"`
	Redeemer string `json:"redeemer"`
	Amount   uint64 `json:"amount"`
}

type TokenAccount struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
}

type Webhook struct {
	Id        string `json:"id"`
	Topic     string `json:"topic"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}
