package dbbadger

import (
	"context"
	"errors"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
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
	if err := r.store.insert(ctx, config.ID, *config); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrAuctionConfigAlreadyExists
		}
		return err
	}
	return nil
}

func (r *auctionConfigRepositoryImpl) GetAuctionConfig(
	ctx context.Context, id uint32,
) (*domain.AuctionConfig, error) {
	var config domain.AuctionConfig
	if err := r.store.get(ctx, id, &config); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrAuctionConfigNotFound
		}
		return nil, err
	}
	return &config, nil
}
