package metrics_test

import (
	"testing"

	"github.com/fastfill-network/matching-engine/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	registry := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(registry))
	// Registering twice is a no-op.
	require.NoError(t, metrics.Register(registry))
}

func TestEventCounter(t *testing.T) {
	counter := metrics.NewEventCounter()
	before := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("AUCTION_STARTED"))

	for i := 0; i < 3; i++ {
		require.NoError(t, counter.Publish("AUCTION_STARTED", nil))
	}

	after := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("AUCTION_STARTED"))
	require.Equal(t, before+3, after)
}

func TestTrackCircuitBreaker(t *testing.T) {
	metrics.TrackCircuitBreaker("webhooks", gobreaker.StateClosed, gobreaker.StateOpen)
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("webhooks")))

	metrics.TrackCircuitBreaker("webhooks", gobreaker.StateOpen, gobreaker.StateHalfOpen)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("webhooks")))
}
