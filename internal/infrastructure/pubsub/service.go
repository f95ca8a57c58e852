package pubsub

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/metrics"
	"github.com/fastfill-network/matching-engine/pkg/circuitbreaker"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

// ErrSubscriptionNotFound ...
var ErrSubscriptionNotFound = errors.New("webhook not found")

const requestTimeout = 15 * time.Second

type service struct {
	store      *store
	httpClient *client
	cb         *gobreaker.CircuitBreaker
}

// NewService returns a pubsub notifying events to webhooks. Subscriptions are
// persisted under datadir, or kept in memory if datadir is empty.
func NewService(datadir string, logger badger.Logger) (ports.PubSub, error) {
	store, err := newStore(datadir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening pubsub db: %w", err)
	}

	return &service{
		store:      store,
		httpClient: newHTTPClient(requestTimeout),
		cb: circuitbreaker.NewCircuitBreaker(
			"webhooks", circuitbreaker.WithStateChangeHook(metrics.TrackCircuitBreaker),
		),
	}, nil
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}
	if err := ws.store.add(sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) Unsubscribe(id string) error {
	return ws.store.remove(id)
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listSubscriptionsForTopic(topic).toPortable()
}

func (ws *service) Publish(topic string, message []byte) error {
	subs := ws.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return ws.doRequest(sub, topic, message) })
	}
	return eg.Wait()
}

func (ws *service) Close() {
	if err := ws.store.close(); err != nil {
		log.WithError(err).Warn("failed to close pubsub db")
	}
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	subs, err := ws.store.listByTopic(topic)
	if err != nil {
		log.WithError(err).Warnf("failed to list webhooks for topic %s", topic)
	}
	if topic != ports.AnyTopic {
		subsForAnyTopic, err := ws.store.listByTopic(ports.AnyTopic)
		if err != nil {
			log.WithError(err).Warn("failed to list webhooks for any topic")
		}
		subs = append(subs, subsForAnyTopic...)
	}
	return subs
}

func (ws *service) doRequest(sub Subscription, topic string, payload []byte) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			token, err := sub.authorization(topic, payload, time.Now())
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", token)
		}

		status, resp, err := ws.httpClient.post(sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("webhook %s replied %d: %s", sub.ID, status, resp)
		}
		return nil, nil
	})
	return err
}
