package domain

import "context"

// UsedCctpNonceRepository records the CCTP messages received by the engine.
type UsedCctpNonceRepository interface {
	// AddUsedCctpNonce returns ErrCctpNonceAlreadyUsed if the message was
	// already received.
	AddUsedCctpNonce(ctx context.Context, nonce *UsedCctpNonce) error
	// GetUsedCctpNonce returns ErrCctpNonceNotFound if missing.
	GetUsedCctpNonce(
		ctx context.Context, sourceDomain uint32, nonce uint64,
	) (*UsedCctpNonce, error)
}
