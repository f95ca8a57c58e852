package interceptor

import (
	middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"go.uber.org/ratelimit"
	"google.golang.org/grpc"
)

// UnaryInterceptor returns the unary interceptor chain of the engine
// services. Errors are translated to status codes before being logged and
// counted.
func UnaryInterceptor(secret []byte, limiter ratelimit.Limiter) grpc.ServerOption {
	return grpc.UnaryInterceptor(
		middleware.ChainUnaryServer(
			unaryLogger,
			unaryMetrics,
			unaryErrorHandler,
			unaryRateLimiter(limiter),
			unaryAuthHandler(secret),
		),
	)
}
