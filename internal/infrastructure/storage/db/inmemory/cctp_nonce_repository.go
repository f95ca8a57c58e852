package inmemory

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

type usedCctpNonceRepositoryImpl struct {
	store *store
}

func newUsedCctpNonceRepositoryImpl(store *store) domain.UsedCctpNonceRepository {
	return &usedCctpNonceRepositoryImpl{store}
}

func (r *usedCctpNonceRepositoryImpl) AddUsedCctpNonce(
	ctx context.Context, nonce *domain.UsedCctpNonce,
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	key := nonce.Key()
	if _, ok := r.store.data.usedCctpNonces[key]; ok {
		return domain.ErrCctpNonceAlreadyUsed
	}
	n := *nonce
	r.store.data.usedCctpNonces[key] = &n
	return nil
}

func (r *usedCctpNonceRepositoryImpl) GetUsedCctpNonce(
	ctx context.Context, sourceDomain uint32, nonce uint64,
) (*domain.UsedCctpNonce, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	n, ok := r.store.data.usedCctpNonces[domain.CctpNonceKey(sourceDomain, nonce)]
	if !ok {
		return nil, domain.ErrCctpNonceNotFound
	}
	used := *n
	return &used, nil
}
