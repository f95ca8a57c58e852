package inmemory

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
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
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.data.preparedResponses[response.FastVaaHash]; ok {
		return domain.ErrPreparedOrderResponseAlreadyExists
	}
	r.store.data.preparedResponses[response.FastVaaHash] =
		clonePreparedOrderResponse(response)
	return nil
}

func (r *preparedOrderResponseRepositoryImpl) GetPreparedOrderResponse(
	ctx context.Context, fastVaaHash domain.Hash,
) (*domain.PreparedOrderResponse, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	response, ok := r.store.data.preparedResponses[fastVaaHash]
	if !ok {
		return nil, domain.ErrPreparedOrderResponseNotFound
	}
	return clonePreparedOrderResponse(response), nil
}

func (r *preparedOrderResponseRepositoryImpl) DeletePreparedOrderResponse(
	ctx context.Context, fastVaaHash domain.Hash,
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.data.preparedResponses[fastVaaHash]; !ok {
		return domain.ErrPreparedOrderResponseNotFound
	}
	delete(r.store.data.preparedResponses, fastVaaHash)
	return nil
}
