package pubsub

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// Subscription is a webhook notified at Endpoint of every event of the
// given topic. Requests are signed with Secret, if any.
type Subscription struct {
	ID         string
	EventTopic string `badgerhold:"index"`
	Endpoint   string
	Secret     string
}

// notificationClaims are the claims of the bearer token sent to secured
// webhooks. PayloadHash commits to the request body.
type notificationClaims struct {
	Topic       string `json:"topic"`
	PayloadHash string `json:"payload_hash"`
	jwt.StandardClaims
}

type subscriptions []Subscription

func (s subscriptions) toPortable() []ports.Subscription {
	subs := make([]ports.Subscription, 0, len(s))
	for i := range s {
		sub := s[i]
		subs = append(subs, &sub)
	}
	return subs
}

func NewSubscription(topic, endpoint, secret string) (*Subscription, error) {
	if len(topic) <= 0 {
		return nil, fmt.Errorf("missing topic")
	}
	u, err := url.ParseRequestURI(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid webhook endpoint, must be an http(s) URI")
	}
	return &Subscription{
		ID:         uuid.New().String(),
		EventTopic: topic,
		Endpoint:   endpoint,
		Secret:     secret,
	}, nil
}

func (s *Subscription) Topic() string {
	return s.EventTopic
}

func (s *Subscription) Id() string {
	return s.ID
}

func (s *Subscription) NotifyAt() string {
	return s.Endpoint
}

func (s *Subscription) IsSecured() bool {
	return len(s.Secret) > 0
}

// authorization returns the bearer token for notifying the given payload
// of the given topic, signed with the secret of the subscription.
func (s *Subscription) authorization(
	topic string, payload []byte, now time.Time,
) (string, error) {
	claims := notificationClaims{
		Topic:       topic,
		PayloadHash: crypto.Keccak256Hash(payload).Hex(),
		StandardClaims: jwt.StandardClaims{
			Subject:  s.ID,
			IssuedAt: now.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.Secret))
}
