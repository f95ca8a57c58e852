package domain

import "context"

// PreparedOrderResponseRepository ...
type PreparedOrderResponseRepository interface {
	// AddPreparedOrderResponse returns ErrPreparedOrderResponseAlreadyExists
	// if the order was already prepared.
	AddPreparedOrderResponse(
		ctx context.Context, response *PreparedOrderResponse,
	) error
	// GetPreparedOrderResponse returns ErrPreparedOrderResponseNotFound if
	// missing or already consumed.
	GetPreparedOrderResponse(
		ctx context.Context, fastVaaHash Hash,
	) (*PreparedOrderResponse, error)
	DeletePreparedOrderResponse(ctx context.Context, fastVaaHash Hash) error
}
