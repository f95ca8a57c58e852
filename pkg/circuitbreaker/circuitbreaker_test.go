package circuitbreaker_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fastfill-network/matching-engine/pkg/circuitbreaker"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failingCall() (interface{}, error) {
	return nil, errBoom
}

func TestCircuitBreaker(t *testing.T) {
	var lock sync.Mutex
	transitions := make([]gobreaker.State, 0)
	cb := circuitbreaker.NewCircuitBreaker(
		"test",
		circuitbreaker.WithThreshold(3, 0.5),
		circuitbreaker.WithOpenTimeout(50*time.Millisecond),
		circuitbreaker.WithStateChangeHook(func(_ string, _, to gobreaker.State) {
			lock.Lock()
			defer lock.Unlock()
			transitions = append(transitions, to)
		}),
	)

	for i := 0; i < 4; i++ {
		_, err := cb.Execute(failingCall)
		require.ErrorIs(t, err, errBoom)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(failingCall)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)

	time.Sleep(60 * time.Millisecond)
	_, err = cb.Execute(func() (interface{}, error) { return nil, nil })
	require.NoError(t, err)
	require.Equal(t, gobreaker.StateClosed, cb.State())

	lock.Lock()
	defer lock.Unlock()
	require.Equal(t, []gobreaker.State{
		gobreaker.StateOpen, gobreaker.StateHalfOpen, gobreaker.StateClosed,
	}, transitions)
}

func TestCircuitBreakerDefaults(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("defaults")

	for i := 0; i < 10; i++ {
		_, err := cb.Execute(failingCall)
		require.ErrorIs(t, err, errBoom)
	}
	require.Equal(t, gobreaker.StateClosed, cb.State())

	_, err := cb.Execute(failingCall)
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, gobreaker.StateOpen, cb.State())
}
