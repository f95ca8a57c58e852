package inmemory

import (
	"context"
	"sort"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
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
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.data.routerEndpoints[endpoint.Chain]; ok {
		return domain.ErrRouterEndpointAlreadyExists
	}
	r.store.data.routerEndpoints[endpoint.Chain] = cloneRouterEndpoint(endpoint)
	return nil
}

func (r *routerEndpointRepositoryImpl) GetRouterEndpoint(
	ctx context.Context, chain domain.ChainID,
) (*domain.RouterEndpoint, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	endpoint, ok := r.store.data.routerEndpoints[chain]
	if !ok {
		return nil, domain.ErrRouterEndpointNotFound
	}
	return cloneRouterEndpoint(endpoint), nil
}

func (r *routerEndpointRepositoryImpl) GetAllRouterEndpoints(
	ctx context.Context,
) ([]*domain.RouterEndpoint, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	endpoints := make([]*domain.RouterEndpoint, 0, len(r.store.data.routerEndpoints))
	for _, e := range r.store.data.routerEndpoints {
		endpoints = append(endpoints, cloneRouterEndpoint(e))
	}
	sort.SliceStable(endpoints, func(i, j int) bool {
		return endpoints[i].Chain < endpoints[j].Chain
	})
	return endpoints, nil
}

func (r *routerEndpointRepositoryImpl) UpdateRouterEndpoint(
	ctx context.Context, chain domain.ChainID,
	updateFn func(e *domain.RouterEndpoint) (*domain.RouterEndpoint, error),
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	endpoint, ok := r.store.data.routerEndpoints[chain]
	if !ok {
		return domain.ErrRouterEndpointNotFound
	}
	updated, err := updateFn(cloneRouterEndpoint(endpoint))
	if err != nil {
		return err
	}
	r.store.data.routerEndpoints[chain] = cloneRouterEndpoint(updated)
	return nil
}
