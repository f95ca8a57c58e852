package domain

import "context"

// RouterEndpointRepository is the registry of token routers, one per chain.
type RouterEndpointRepository interface {
	// AddRouterEndpoint returns ErrRouterEndpointAlreadyExists if the chain is
	// already registered.
	AddRouterEndpoint(ctx context.Context, endpoint *RouterEndpoint) error
	// GetRouterEndpoint returns ErrRouterEndpointNotFound if missing.
	GetRouterEndpoint(ctx context.Context, chain ChainID) (*RouterEndpoint, error)
	GetAllRouterEndpoints(ctx context.Context) ([]*RouterEndpoint, error)
	UpdateRouterEndpoint(
		ctx context.Context, chain ChainID,
		updateFn func(e *RouterEndpoint) (*RouterEndpoint, error),
	) error
}
