package domain

import "context"

// RedeemedFastFillRepository ...
type RedeemedFastFillRepository interface {
	// AddRedeemedFastFill returns ErrFastFillAlreadyRedeemed if the fill was
	// already redeemed.
	AddRedeemedFastFill(ctx context.Context, fill *RedeemedFastFill) error
	// GetRedeemedFastFill returns ErrRedeemedFastFillNotFound if missing.
	GetRedeemedFastFill(
		ctx context.Context, vaaHash Hash,
	) (*RedeemedFastFill, error)
}
