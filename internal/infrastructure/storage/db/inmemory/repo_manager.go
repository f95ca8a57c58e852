package inmemory

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
)

type repoManager struct {
	store *store

	custodianRepository             domain.CustodianRepository
	auctionConfigRepository         domain.AuctionConfigRepository
	proposalRepository              domain.ProposalRepository
	routerEndpointRepository        domain.RouterEndpointRepository
	auctionRepository               domain.AuctionRepository
	preparedOrderResponseRepository domain.PreparedOrderResponseRepository
	redeemedFastFillRepository      domain.RedeemedFastFillRepository
	payerSequenceRepository         domain.PayerSequenceRepository
	tokenAccountRepository          domain.TokenAccountRepository
	usedCctpNonceRepository         domain.UsedCctpNonceRepository
}

// NewRepoManager returns a RepoManager keeping everything in memory.
func NewRepoManager() ports.RepoManager {
	store := newStore()

	return &repoManager{
		store:                           store,
		custodianRepository:             newCustodianRepositoryImpl(store),
		auctionConfigRepository:         newAuctionConfigRepositoryImpl(store),
		proposalRepository:              newProposalRepositoryImpl(store),
		routerEndpointRepository:        newRouterEndpointRepositoryImpl(store),
		auctionRepository:               newAuctionRepositoryImpl(store),
		preparedOrderResponseRepository: newPreparedOrderResponseRepositoryImpl(store),
		redeemedFastFillRepository:      newRedeemedFastFillRepositoryImpl(store),
		payerSequenceRepository:         newPayerSequenceRepositoryImpl(store),
		tokenAccountRepository:          newTokenAccountRepositoryImpl(store),
		usedCctpNonceRepository:         newUsedCctpNonceRepositoryImpl(store),
	}
}

func (m *repoManager) CustodianRepository() domain.CustodianRepository {
	return m.custodianRepository
}

func (m *repoManager) AuctionConfigRepository() domain.AuctionConfigRepository {
	return m.auctionConfigRepository
}

func (m *repoManager) ProposalRepository() domain.ProposalRepository {
	return m.proposalRepository
}

func (m *repoManager) RouterEndpointRepository() domain.RouterEndpointRepository {
	return m.routerEndpointRepository
}

func (m *repoManager) AuctionRepository() domain.AuctionRepository {
	return m.auctionRepository
}

func (m *repoManager) PreparedOrderResponseRepository() domain.PreparedOrderResponseRepository {
	return m.preparedOrderResponseRepository
}

func (m *repoManager) RedeemedFastFillRepository() domain.RedeemedFastFillRepository {
	return m.redeemedFastFillRepository
}

func (m *repoManager) PayerSequenceRepository() domain.PayerSequenceRepository {
	return m.payerSequenceRepository
}

func (m *repoManager) TokenAccountRepository() domain.TokenAccountRepository {
	return m.tokenAccountRepository
}

func (m *repoManager) UsedCctpNonceRepository() domain.UsedCctpNonceRepository {
	return m.usedCctpNonceRepository
}

// RunTransaction holds the store lock for the whole handler and restores the
// previous state if the handler fails. Nested calls join the outer
// transaction.
func (m *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if ctx.Value(txKey{}) != nil {
		return handler(ctx)
	}

	m.store.locker.Lock()
	defer m.store.locker.Unlock()

	var snapshot *data
	if !readOnly {
		snapshot = m.store.data.snapshot()
	}

	res, err := handler(context.WithValue(ctx, txKey{}, struct{}{}))
	if err != nil {
		if snapshot != nil {
			m.store.data = snapshot
		}
		return nil, err
	}
	return res, nil
}

func (m *repoManager) Close() {}
