package domain

import "context"

// AuctionRepository ...
type AuctionRepository interface {
	// AddAuction returns ErrAuctionAlreadyStarted if an auction, of any
	// status, exists for the same VAA hash.
	AddAuction(ctx context.Context, auction *Auction) error
	// GetAuction returns ErrAuctionNotFound if missing.
	GetAuction(ctx context.Context, vaaHash Hash) (*Auction, error)
	UpdateAuction(
		ctx context.Context, vaaHash Hash,
		updateFn func(a *Auction) (*Auction, error),
	) error
	// GetActiveAuctions returns the active auctions started at or before the
	// given slot, oldest first.
	GetActiveAuctions(ctx context.Context, maxStartSlot uint64) ([]*Auction, error)
	GetAuctionsByStatus(
		ctx context.Context, status AuctionStatusCode,
	) ([]*Auction, error)
}
