package application

import (
	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

// InitializeArgs ...
type InitializeArgs struct {
	OwnerAssistant    domain.Address
	FeeRecipientToken domain.Address
	AuctionParameters domain.AuctionParameters
}

// RouterEndpointArgs describes the endpoint to register for a chain.
type RouterEndpointArgs struct {
	Chain         domain.ChainID
	Address       domain.Address
	MintRecipient domain.Address
	Protocol      domain.MessageProtocol
}

// PlaceInitialOfferArgs ...
type PlaceInitialOfferArgs struct {
	FastVaa    []byte
	OfferPrice uint64
	OfferToken domain.Address
}

// ImproveOfferArgs carries the best offer token the bidder observed. The
// improvement fails if the best offer changed meanwhile.
type ImproveOfferArgs struct {
	FastVaaHash    domain.Hash
	OfferPrice     uint64
	OfferToken     domain.Address
	BestOfferToken domain.Address
}

// ExecuteFastOrderArgs ...
type ExecuteFastOrderArgs struct {
	FastVaa       []byte
	ExecutorToken domain.Address
}

// ExecuteFastOrderReply ...
type ExecuteFastOrderReply struct {
	Auction    *domain.Auction
	UserAmount uint64
	Penalty    uint64
	UserReward uint64
	// Sequence is the emitter sequence of the published fill.
	Sequence uint64
}

// PrepareOrderResponseArgs carries the fast order, its finalized deposit and
// the CCTP message minting the deposited funds.
type PrepareOrderResponseArgs struct {
	FastVaa         []byte
	FinalizedVaa    []byte
	CctpMessage     []byte
	CctpAttestation []byte
}

// SettleAuctionCompleteArgs ...
type SettleAuctionCompleteArgs struct {
	FastVaaHash    domain.Hash
	ExecutorToken  domain.Address
	BestOfferToken domain.Address
}

// SettleAuctionNoneArgs settles an order that was never auctioned. If
// Prepare is set, the order response is prepared in the same transaction.
type SettleAuctionNoneArgs struct {
	FastVaaHash       domain.Hash
	FeeRecipientToken domain.Address
	Prepare           *PrepareOrderResponseArgs
}

// SettleReply ...
type SettleReply struct {
	Auction *domain.Auction
	Payouts []domain.Payout
	// UserAmount and Sequence are only set by the none paths.
	UserAmount uint64
	Sequence   uint64
}

// RedeemFastFillArgs ...
type RedeemFastFillArgs struct {
	Vaa              []byte
	DestinationToken domain.Address
}

// OpenTokenAccountArgs ...
type OpenTokenAccountArgs struct {
	Address domain.Address
}

// TransferArgs ...
type TransferArgs struct {
	From   domain.Address
	To     domain.Address
	Amount uint64
}

// MintArgs ...
type MintArgs struct {
	To     domain.Address
	Amount uint64
}
