package circuitbreaker

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	defaultMinRequests  = 10
	defaultFailingRatio = 0.6
	defaultOpenTimeout  = 30 * time.Second
)

// StateChangeHook is called whenever a breaker changes state.
type StateChangeHook func(name string, from, to gobreaker.State)

type settings struct {
	minRequests  uint32
	failingRatio float64
	openTimeout  time.Duration
	hooks        []StateChangeHook
}

type Option func(*settings)

// WithThreshold makes the breaker trip once more than minRequests were
// made and at least ratio of them failed.
func WithThreshold(minRequests uint32, ratio float64) Option {
	return func(s *settings) {
		s.minRequests = minRequests
		s.failingRatio = ratio
	}
}

// WithOpenTimeout sets how long the breaker stays open before letting a
// trial request through.
func WithOpenTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.openTimeout = timeout
	}
}

func WithStateChangeHook(hook StateChangeHook) Option {
	return func(s *settings) {
		s.hooks = append(s.hooks, hook)
	}
}

// NewCircuitBreaker returns a breaker guarding calls to an external
// service. By default it trips when more than 10 requests were made and
// 60% of them failed, and every state change is logged.
func NewCircuitBreaker(name string, opts ...Option) *gobreaker.CircuitBreaker {
	s := &settings{
		minRequests:  defaultMinRequests,
		failingRatio: defaultFailingRatio,
		openTimeout:  defaultOpenTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: s.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests <= s.minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= s.failingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("circuit breaker %s switched from %s to %s", name, from, to)
			for _, hook := range s.hooks {
				hook(name, from, to)
			}
		},
	})
}
