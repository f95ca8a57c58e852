package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

const namespace = "mengine"

var (
	// EventsPublished counts the engine events forwarded to each sink.
	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Number of engine events published, by topic.",
	}, []string{"topic"})

	// MessagesPublished counts the outbound messages posted to the messaging
	// layer, by emitter.
	MessagesPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_published_total",
		Help:      "Number of outbound messages published, by emitter.",
	}, []string{"emitter"})

	// GrpcRequests counts served gRPC calls by method and status code.
	GrpcRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grpc_requests_total",
		Help:      "Number of gRPC requests, by method and code.",
	}, []string{"method", "code"})

	// GrpcRequestDuration tracks the latency of served gRPC calls.
	GrpcRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "grpc_request_duration_seconds",
		Help:      "Latency of gRPC requests, by method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	// NatsConnectionStatus is 1 while connected to the NATS server.
	NatsConnectionStatus = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "nats_connection_status",
		Help:      "NATS connection status (1 connected, 0 disconnected).",
	})

	// CircuitBreakerState is the state of each circuit breaker: 0 closed,
	// 1 half-open, 2 open.
	CircuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open), by name.",
	}, []string{"name"})
)

// Register adds all engine collectors to the given registerer.
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		EventsPublished, MessagesPublished, GrpcRequests, GrpcRequestDuration,
		NatsConnectionStatus, CircuitBreakerState,
	} {
		if err := r.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// TrackCircuitBreaker records the state changes of a circuit breaker. It is
// meant to be used as state change hook.
func TrackCircuitBreaker(name string, _, to gobreaker.State) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(to))
}
