package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type routerEndpointRepositoryImpl struct {
	store *store
}

func newRouterEndpointRepositoryImpl(store *store) domain.RouterEndpointRepository {
	return &routerEndpointRepositoryImpl{store}
}

func (r *routerEndpointRepositoryImpl) AddRouterEndpoint(
	ctx context.Context, endpoint *domain.RouterEndpoint,
) error {
	if err := r.store.insert(ctx, uint16(endpoint.Chain), *endpoint); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrRouterEndpointAlreadyExists
		}
		return err
	}
	return nil
}

func (r *routerEndpointRepositoryImpl) GetRouterEndpoint(
	ctx context.Context, chain domain.ChainID,
) (*domain.RouterEndpoint, error) {
	var endpoint domain.RouterEndpoint
	if err := r.store.get(ctx, uint16(chain), &endpoint); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrRouterEndpointNotFound
		}
		return nil, err
	}
	return &endpoint, nil
}

func (r *routerEndpointRepositoryImpl) GetAllRouterEndpoints(
	ctx context.Context,
) ([]*domain.RouterEndpoint, error) {
	var endpoints []domain.RouterEndpoint
	if err := r.store.find(ctx, &endpoints, nil); err != nil {
		return nil, err
	}

	res := make([]*domain.RouterEndpoint, 0, len(endpoints))
	for i := range endpoints {
		res = append(res, &endpoints[i])
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Chain < res[j].Chain
	})
	return res, nil
}

func (r *routerEndpointRepositoryImpl) UpdateRouterEndpoint(
	ctx context.Context, chain domain.ChainID,
	updateFn func(e *domain.RouterEndpoint) (*domain.RouterEndpoint, error),
) error {
	endpoint, err := r.GetRouterEndpoint(ctx, chain)
	if err != nil {
		return err
	}
	updated, err := updateFn(endpoint)
	if err != nil {
		return err
	}
	return r.store.update(ctx, uint16(chain), *updated)
}
