package inmemory

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

type auctionConfigRepositoryImpl struct {
	store *store
}

func newAuctionConfigRepositoryImpl(store *store) domain.AuctionConfigRepository {
	return &auctionConfigRepositoryImpl{store}
}

func (r *auctionConfigRepositoryImpl) AddAuctionConfig(
	ctx context.Context, config *domain.AuctionConfig,
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.data.auctionConfigs[config.ID]; ok {
		return domain.ErrAuctionConfigAlreadyExists
	}
	r.store.data.auctionConfigs[config.ID] = cloneAuctionConfig(config)
	return nil
}

func (r *auctionConfigRepositoryImpl) GetAuctionConfig(
	ctx context.Context, id uint32,
) (*domain.AuctionConfig, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	config, ok := r.store.data.auctionConfigs[id]
	if !ok {
		return nil, domain.ErrAuctionConfigNotFound
	}
	return cloneAuctionConfig(config), nil
}
