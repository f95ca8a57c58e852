package pubsub

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionAuthorization(t *testing.T) {
	sub, err := NewSubscription("AUCTION_SETTLED", "https://solver.example/hook", "secret")
	require.NoError(t, err)
	require.True(t, sub.IsSecured())
	require.Equal(t, "AUCTION_SETTLED", sub.Topic())

	payload := []byte(`{"fee":10}`)
	now := time.Now()
	token, err := sub.authorization("AUCTION_SETTLED", payload, now)
	require.NoError(t, err)

	claims := &notificationClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.Equal(t, sub.ID, claims.Subject)
	require.Equal(t, "AUCTION_SETTLED", claims.Topic)
	require.Equal(t, crypto.Keccak256Hash(payload).Hex(), claims.PayloadHash)
	require.Equal(t, now.Unix(), claims.IssuedAt)

	_, err = jwt.ParseWithClaims(token, &notificationClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("another secret"), nil
	})
	require.Error(t, err)
}

func TestNewSubscriptionScheme(t *testing.T) {
	_, err := NewSubscription("AUCTION_STARTED", "ftp://solver.example/hook", "")
	require.Error(t, err)

	sub, err := NewSubscription("AUCTION_STARTED", "http://localhost:8080/hook", "")
	require.NoError(t, err)
	require.False(t, sub.IsSecured())
	require.NotEmpty(t, sub.Id())
	require.Equal(t, "http://localhost:8080/hook", sub.NotifyAt())
}
