package interceptor

import (
	"context"

	"go.uber.org/ratelimit"
	"google.golang.org/grpc"
)

// unaryRateLimiter makes every request wait for its turn. A nil limiter
// lets requests through unthrottled.
func unaryRateLimiter(limiter ratelimit.Limiter) grpc.UnaryServerInterceptor {
	if limiter == nil {
		limiter = ratelimit.NewUnlimited()
	}
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		limiter.Take()
		return handler(ctx, req)
	}
}
