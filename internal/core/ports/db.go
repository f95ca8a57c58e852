package ports

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

// RepoManager gives access to every repository of the engine and runs
// handlers atomically: either all writes of a handler are persisted or none.
type RepoManager interface {
	CustodianRepository() domain.CustodianRepository
	AuctionConfigRepository() domain.AuctionConfigRepository
	ProposalRepository() domain.ProposalRepository
	RouterEndpointRepository() domain.RouterEndpointRepository
	AuctionRepository() domain.AuctionRepository
	PreparedOrderResponseRepository() domain.PreparedOrderResponseRepository
	RedeemedFastFillRepository() domain.RedeemedFastFillRepository
	PayerSequenceRepository() domain.PayerSequenceRepository
	TokenAccountRepository() domain.TokenAccountRepository
	UsedCctpNonceRepository() domain.UsedCctpNonceRepository

	// RunTransaction runs the handler within a transaction. The handler must
	// use the given context when accessing repositories. Any error returned
	// by the handler rolls back the transaction.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
