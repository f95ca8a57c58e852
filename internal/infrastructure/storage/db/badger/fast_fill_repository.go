package dbbadger

import (
	"context"
	"errors"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
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
	if err := r.store.insert(ctx, fill.VaaHash.String(), *fill); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrFastFillAlreadyRedeemed
		}
		return err
	}
	return nil
}

func (r *redeemedFastFillRepositoryImpl) GetRedeemedFastFill(
	ctx context.Context, vaaHash domain.Hash,
) (*domain.RedeemedFastFill, error) {
	var fill domain.RedeemedFastFill
	if err := r.store.get(ctx, vaaHash.String(), &fill); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrRedeemedFastFillNotFound
		}
		return nil, err
	}
	return &fill, nil
}
