package interceptor

import (
	"context"
	"time"

	"github.com/fastfill-network/matching-engine/internal/infrastructure/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func unaryMetrics(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	res, err := handler(ctx, req)

	metrics.GrpcRequestDuration.WithLabelValues(info.FullMethod).
		Observe(time.Since(start).Seconds())
	metrics.GrpcRequests.WithLabelValues(
		info.FullMethod, status.Code(err).String(),
	).Inc()
	return res, err
}
