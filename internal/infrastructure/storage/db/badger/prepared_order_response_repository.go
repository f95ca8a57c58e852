package dbbadger

import (
	"context"
	"errors"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type preparedOrderResponseRepositoryImpl struct {
	store *store
}

func newPreparedOrderResponseRepositoryImpl(
	store *store,
) domain.PreparedOrderResponseRepository {
	return &preparedOrderResponseRepositoryImpl{store}
}

func (r *preparedOrderResponseRepositoryImpl) AddPreparedOrderResponse(
	ctx context.Context, response *domain.PreparedOrderResponse,
) error {
	key := response.FastVaaHash.String()
	if err := r.store.insert(ctx, key, *response); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrPreparedOrderResponseAlreadyExists
		}
		return err
	}
	return nil
}

func (r *preparedOrderResponseRepositoryImpl) GetPreparedOrderResponse(
	ctx context.Context, fastVaaHash domain.Hash,
) (*domain.PreparedOrderResponse, error) {
	var response domain.PreparedOrderResponse
	if err := r.store.get(ctx, fastVaaHash.String(), &response); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrPreparedOrderResponseNotFound
		}
		return nil, err
	}
	return &response, nil
}

func (r *preparedOrderResponseRepositoryImpl) DeletePreparedOrderResponse(
	ctx context.Context, fastVaaHash domain.Hash,
) error {
	err := r.store.delete(
		ctx, fastVaaHash.String(), domain.PreparedOrderResponse{},
	)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrPreparedOrderResponseNotFound
		}
		return err
	}
	return nil
}
