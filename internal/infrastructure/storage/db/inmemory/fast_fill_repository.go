package inmemory

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

type redeemedFastFillRepositoryImpl struct {
	store *store
}

func newRedeemedFastFillRepositoryImpl(
	store *store,
) domain.RedeemedFastFillRepository {
	return &redeemedFastFillRepositoryImpl{store}
}

func (r *redeemedFastFillRepositoryImpl) AddRedeemedFastFill(
	ctx context.Context, fill *domain.RedeemedFastFill,
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.data.redeemedFills[fill.VaaHash]; ok {
		return domain.ErrFastFillAlreadyRedeemed
	}
	r.store.data.redeemedFills[fill.VaaHash] = cloneRedeemedFastFill(fill)
	return nil
}

func (r *redeemedFastFillRepositoryImpl) GetRedeemedFastFill(
	ctx context.Context, vaaHash domain.Hash,
) (*domain.RedeemedFastFill, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	fill, ok := r.store.data.redeemedFills[vaaHash]
	if !ok {
		return nil, domain.ErrRedeemedFastFillNotFound
	}
	return cloneRedeemedFastFill(fill), nil
}
