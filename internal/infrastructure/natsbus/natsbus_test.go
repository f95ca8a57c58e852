package natsbus_test

import (
	"testing"
	"time"

	"github.com/fastfill-network/matching-engine/internal/infrastructure/natsbus"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		prefix   string
		topic    string
		expected string
	}{
		{"mengine.events", "AUCTION_STARTED", "mengine.events.auction_started"},
		{"mengine.events", "*", "mengine.events.all"},
		{"mengine.vaa", "0xabcd", "mengine.vaa.0xabcd"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, natsbus.Subject(tt.prefix, tt.topic))
	}
}

func TestConnectFailing(t *testing.T) {
	conn, err := natsbus.Connect("nats://127.0.0.1:1", 500*time.Millisecond)
	require.Error(t, err)
	require.Nil(t, conn)
}

func TestNewPublisherFailing(t *testing.T) {
	publisher, err := natsbus.NewPublisher(nil, "mengine.events")
	require.Error(t, err)
	require.Nil(t, publisher)
}
