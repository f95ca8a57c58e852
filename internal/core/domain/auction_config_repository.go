package domain

import "context"

// AuctionConfigRepository stores every version of the auction parameters.
// Versions are append-only.
type AuctionConfigRepository interface {
	// AddAuctionConfig returns ErrAuctionConfigAlreadyExists if the version is
	// taken.
	AddAuctionConfig(ctx context.Context, config *AuctionConfig) error
	// GetAuctionConfig returns ErrAuctionConfigNotFound if missing.
	GetAuctionConfig(ctx context.Context, id uint32) (*AuctionConfig, error)
}
