package dbbadger

import (
	"context"
	"errors"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
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
	if err := r.store.insert(ctx, nonce.Key(), *nonce); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrCctpNonceAlreadyUsed
		}
		return err
	}
	return nil
}

func (r *usedCctpNonceRepositoryImpl) GetUsedCctpNonce(
	ctx context.Context, sourceDomain uint32, nonce uint64,
) (*domain.UsedCctpNonce, error) {
	var used domain.UsedCctpNonce
	key := domain.CctpNonceKey(sourceDomain, nonce)
	if err := r.store.get(ctx, key, &used); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrCctpNonceNotFound
		}
		return nil, err
	}
	return &used, nil
}
