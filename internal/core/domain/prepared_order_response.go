package domain

import "github.com/fastfill-network/matching-engine/pkg/message"

// PreparedOrderResponse records that the slow transfer of a fast order was
// minted into the engine custody. It is consumed exactly once by one of the
// settlement paths.
type PreparedOrderResponse struct {
	FastVaaHash      Hash
	FastVaaTimestamp uint32
	PreparedBy       Address
	SourceChain      ChainID
	BaseFee          uint64
	CustodyToken     Address
	AmountIn         uint64
	InitAuctionFee   uint64
	TargetChain      ChainID
	Sender           Address
	Redeemer         Address
	RedeemerMessage  []byte
}

// NewPreparedOrderResponse ...
func NewPreparedOrderResponse(
	fastVaaHash Hash, fastVaaTimestamp uint32, sourceChain ChainID,
	preparedBy Address, order *message.FastMarketOrder, baseFee uint64,
) *PreparedOrderResponse {
	return &PreparedOrderResponse{
		FastVaaHash:      fastVaaHash,
		FastVaaTimestamp: fastVaaTimestamp,
		PreparedBy:       preparedBy,
		SourceChain:      sourceChain,
		BaseFee:          baseFee,
		CustodyToken:     PreparedCustodyToken(fastVaaHash),
		AmountIn:         order.AmountIn,
		InitAuctionFee:   order.InitAuctionFee,
		TargetChain:      order.TargetChain,
		Sender:           order.Sender,
		Redeemer:         order.Redeemer,
		RedeemerMessage:  order.RedeemerMessage,
	}
}

// Fill returns the fill message delivering the order to its redeemer.
func (p *PreparedOrderResponse) Fill() message.Fill {
	return message.Fill{
		SourceChain:     p.SourceChain,
		OrderSender:     p.Sender,
		Redeemer:        p.Redeemer,
		RedeemerMessage: p.RedeemerMessage,
	}
}

// SettleNone splits the repayment of an order that was never auctioned: the
// fee recipient earns the base fee and the user receives the rest.
func (p *PreparedOrderResponse) SettleNone(repayment uint64) (fee, userAmount uint64) {
	fee = p.BaseFee
	if fee > repayment {
		fee = repayment
	}
	return fee, repayment - fee
}
