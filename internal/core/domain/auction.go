package domain

import (
	"github.com/fastfill-network/matching-engine/pkg/mathutil"
	"github.com/fastfill-network/matching-engine/pkg/message"
)

// AuctionInfo is the bidding state of a started auction.
type AuctionInfo struct {
	ConfigID          uint32
	CustodyToken      Address
	VaaSequence       uint64
	SourceChain       ChainID
	BestOfferToken    Address
	InitialOfferToken Address
	StartSlot         uint64
	AmountIn          uint64
	SecurityDeposit   uint64
	OfferPrice        uint64
	// AmountOut is the principal forwarded to the destination before offer
	// price and fees are deducted.
	AmountOut uint64
}

// Stake returns the amount escrowed by the best offer.
func (i *AuctionInfo) Stake() uint64 {
	return i.AmountIn + i.SecurityDeposit
}

// Auction is the competition among solvers for the right to deliver a fast
// order. It is keyed by the digest of the fast order VAA.
type Auction struct {
	VaaHash        Hash
	VaaTimestamp   uint32
	TargetProtocol MessageProtocol
	Status         AuctionStatus
	// Info is nil until an initial offer is placed and for auctions settled
	// without ever being started.
	Info *AuctionInfo
}

// InitialOffer holds everything needed to start an auction.
type InitialOffer struct {
	VaaHash        Hash
	VaaTimestamp   uint32
	VaaSequence    uint64
	SourceChain    ChainID
	Order          *message.FastMarketOrder
	Config         *AuctionConfig
	TargetProtocol MessageProtocol
	OfferToken     Address
	OfferPrice     uint64
	Slot           uint64
	// Now is the unix time used to check the order deadline.
	Now int64
}

// ImprovedOffer is the outcome of a successful improvement: the stake of the
// displaced best offer must be refunded and the one of the new best offer
// escrowed. Both are zero if the best offer improves its own offer.
type ImprovedOffer struct {
	DisplacedToken Address
	Refund         uint64
	Stake          uint64
}

// Payout is an amount released from custody to a token account.
type Payout struct {
	Token  Address
	Amount uint64
}

// Execution is the outcome of executing an auction. UserAmount goes to the
// order redeemer on the destination chain, Payouts are released locally.
type Execution struct {
	UserAmount uint64
	Penalized  bool
	Penalty    DepositPenalty
	Payouts    []Payout
}

// NewAuction returns an auction in NotStarted state.
func NewAuction(vaaHash Hash) *Auction {
	return &Auction{
		VaaHash: vaaHash,
		Status:  AuctionStatus{Code: AuctionStatusNotStarted},
	}
}

// NewSettledNoneAuction returns the tombstone of an order settled without an
// auction. It prevents any later auction for the same order.
func NewSettledNoneAuction(
	vaaHash Hash, vaaTimestamp uint32, targetProtocol MessageProtocol,
	fee uint64,
) *Auction {
	return &Auction{
		VaaHash:        vaaHash,
		VaaTimestamp:   vaaTimestamp,
		TargetProtocol: targetProtocol,
		Status: AuctionStatus{
			Code:    AuctionStatusSettled,
			Settled: &SettledStatus{Fee: fee},
		},
	}
}

// IsActive ...
func (a *Auction) IsActive() bool {
	return a.Status.Code == AuctionStatusActive
}

// PlaceInitialOffer starts the auction with the given offer and returns the
// stake that the offer token must escrow into the auction custody.
func (a *Auction) PlaceInitialOffer(offer InitialOffer) (uint64, error) {
	if a.Status.Code != AuctionStatusNotStarted {
		return 0, ErrAuctionAlreadyStarted
	}

	order := offer.Order
	if order.AmountIn == 0 {
		return 0, ErrZeroAmount
	}
	if order.Deadline != 0 && offer.Now >= int64(order.Deadline) {
		return 0, ErrFastMarketOrderExpired
	}
	if offer.OfferPrice > order.MaxFee {
		return 0, ErrOfferPriceTooHigh
	}
	fees, overflow := mathutil.CheckedAdd(order.MaxFee, order.InitAuctionFee)
	if overflow || fees > order.AmountIn {
		return 0, ErrFeesExceedAmount
	}

	params := offer.Config.Parameters
	securityDeposit, overflow := mathutil.CheckedAdd(
		order.MaxFee, params.NotionalSecurityDeposit(order.AmountIn),
	)
	if overflow {
		return 0, ErrAmountOverflow
	}
	stake, overflow := mathutil.CheckedAdd(order.AmountIn, securityDeposit)
	if overflow {
		return 0, ErrAmountOverflow
	}

	a.VaaHash = offer.VaaHash
	a.VaaTimestamp = offer.VaaTimestamp
	a.TargetProtocol = offer.TargetProtocol
	a.Info = &AuctionInfo{
		ConfigID:          offer.Config.ID,
		CustodyToken:      AuctionCustodyToken(offer.VaaHash),
		VaaSequence:       offer.VaaSequence,
		SourceChain:       offer.SourceChain,
		BestOfferToken:    offer.OfferToken,
		InitialOfferToken: offer.OfferToken,
		StartSlot:         offer.Slot,
		AmountIn:          order.AmountIn,
		SecurityDeposit:   securityDeposit,
		OfferPrice:        offer.OfferPrice,
		AmountOut:         order.AmountIn,
	}
	a.Status = AuctionStatus{Code: AuctionStatusActive}
	return stake, nil
}

// ImproveOffer replaces the best offer with a strictly better one. The caller
// passes the best offer token it observed: if the best offer changed in the
// meantime the improvement is rejected.
func (a *Auction) ImproveOffer(
	params AuctionParameters, expectedBestOfferToken, offerToken Address,
	offerPrice, slot uint64,
) (*ImprovedOffer, error) {
	if a.Status.Code != AuctionStatusActive || a.Info == nil {
		return nil, ErrAuctionNotActive
	}
	info := a.Info
	if slot >= params.AuctionEndSlot(info.StartSlot) {
		return nil, ErrAuctionPeriodExpired
	}
	if expectedBestOfferToken != info.BestOfferToken {
		return nil, ErrBestOfferTokenMismatch
	}
	if offerPrice > info.OfferPrice-params.MinOfferDelta(info.OfferPrice) {
		return nil, ErrOfferPriceNotImproved
	}

	improved := &ImprovedOffer{DisplacedToken: info.BestOfferToken}
	if offerToken != info.BestOfferToken {
		improved.Refund = info.Stake()
		improved.Stake = info.Stake()
	}
	info.BestOfferToken = offerToken
	info.OfferPrice = offerPrice
	return improved, nil
}

// Execute closes the auction at the given slot. During the grace period only
// the best offer can execute, afterwards anyone can and the best offer's
// security deposit is progressively forfeited.
func (a *Auction) Execute(
	params AuctionParameters, order *message.FastMarketOrder,
	executorToken Address, slot uint64,
) (*Execution, error) {
	if a.Status.Code != AuctionStatusActive || a.Info == nil {
		return nil, ErrAuctionNotActive
	}
	info := a.Info
	if slot < params.AuctionEndSlot(info.StartSlot) {
		return nil, ErrAuctionPeriodNotExpired
	}
	penalized := slot > params.GracePeriodEndSlot(info.StartSlot)
	if !penalized && executorToken != info.BestOfferToken {
		return nil, ErrExecutorNotBestOffer
	}

	penalty := params.ComputeDepositPenalty(
		info.StartSlot, info.SecurityDeposit, slot,
	)

	// Fees were bounded by AmountIn when the auction started.
	userAmount := info.AmountIn - info.OfferPrice - order.InitAuctionFee +
		penalty.UserReward
	depositAndFee := info.OfferPrice + info.SecurityDeposit - penalty.UserReward

	payouts := make([]Payout, 0, 3)
	if penalized && executorToken != info.BestOfferToken {
		depositAndFee -= penalty.Penalty
		payouts = addPayout(payouts, executorToken, penalty.Penalty)
	}
	payouts = addPayout(payouts, info.BestOfferToken, depositAndFee)
	payouts = addPayout(payouts, info.InitialOfferToken, order.InitAuctionFee)

	completed := &CompletedStatus{Slot: slot, ExecutorToken: executorToken}
	if penalized {
		executePenalty := penalty.Penalty
		completed.ExecutePenalty = &executePenalty
	}
	a.Status = AuctionStatus{Code: AuctionStatusCompleted, Completed: completed}

	return &Execution{
		UserAmount: userAmount,
		Penalized:  penalized,
		Penalty:    penalty,
		Payouts:    payouts,
	}, nil
}

// SettleComplete settles an executed auction with the funds of its slow
// transfer. The repayment goes to the best offer, except for the base fee
// owed to a third party that executed the auction late.
func (a *Auction) SettleComplete(
	executorToken, bestOfferToken Address, baseFee, repayment uint64,
) ([]Payout, error) {
	if a.Status.Code != AuctionStatusCompleted || a.Status.Completed == nil {
		return nil, ErrAuctionNotCompleted
	}
	completed := a.Status.Completed
	if executorToken != completed.ExecutorToken {
		return nil, ErrExecutorTokenMismatch
	}
	if bestOfferToken != a.Info.BestOfferToken {
		return nil, ErrBestOfferTokenMismatch
	}

	payouts := make([]Payout, 0, 2)
	settled := &SettledStatus{Fee: baseFee}
	if completed.ExecutePenalty != nil {
		totalPenalty := mathutil.SaturatingAdd(*completed.ExecutePenalty, baseFee)
		settled.TotalPenalty = &totalPenalty
	}

	if completed.ExecutePenalty != nil && executorToken != bestOfferToken {
		executorAmount := baseFee
		if executorAmount > repayment {
			executorAmount = repayment
		}
		payouts = addPayout(payouts, executorToken, executorAmount)
		payouts = addPayout(payouts, bestOfferToken, repayment-executorAmount)
	} else {
		payouts = addPayout(payouts, bestOfferToken, repayment)
	}

	a.Status = AuctionStatus{Code: AuctionStatusSettled, Settled: settled}
	return payouts, nil
}

// Fill returns the fill message delivering the order to its redeemer.
func (a *Auction) Fill(order *message.FastMarketOrder) message.Fill {
	return message.Fill{
		SourceChain:     a.Info.SourceChain,
		OrderSender:     order.Sender,
		Redeemer:        order.Redeemer,
		RedeemerMessage: order.RedeemerMessage,
	}
}

// addPayout merges payouts to the same token and skips zero amounts.
func addPayout(payouts []Payout, token Address, amount uint64) []Payout {
	if amount == 0 {
		return payouts
	}
	for i := range payouts {
		if payouts[i].Token == token {
			payouts[i].Amount += amount
			return payouts
		}
	}
	return append(payouts, Payout{Token: token, Amount: amount})
}
