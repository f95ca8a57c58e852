package natsbus

import (
	"fmt"
	"strings"
	"time"

	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/metrics"
	"github.com/fastfill-network/matching-engine/pkg/circuitbreaker"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	defaultConnectTimeout = 10 * time.Second
	reconnectWait         = 5 * time.Second
)

// Connect dials the NATS server at url, reconnecting forever on failures.
func Connect(url string, timeout time.Duration) (*nats.Conn, error) {
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	conn, err := nats.Connect(url,
		nats.Name("matching-engine"),
		nats.Timeout(timeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.WithError(err).Warn("disconnected from nats")
			metrics.NatsConnectionStatus.Set(0)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("reconnected to nats at %s", nc.ConnectedUrl())
			metrics.NatsConnectionStatus.Set(1)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	metrics.NatsConnectionStatus.Set(1)
	return conn, nil
}

type publisher struct {
	conn   *nats.Conn
	prefix string
	cb     *gobreaker.CircuitBreaker
}

// NewPublisher returns a publisher posting every message on the subject
// <prefix>.<topic>.
func NewPublisher(conn *nats.Conn, prefix string) (ports.EventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("missing nats connection")
	}
	if len(strings.TrimSpace(prefix)) <= 0 {
		return nil, fmt.Errorf("missing subject prefix")
	}
	return &publisher{
		conn:   conn,
		prefix: prefix,
		cb: circuitbreaker.NewCircuitBreaker(
			"nats-"+prefix, circuitbreaker.WithStateChangeHook(metrics.TrackCircuitBreaker),
		),
	}, nil
}

func (p *publisher) Publish(topic string, message []byte) error {
	subject := Subject(p.prefix, topic)
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.conn.Publish(subject, message)
	})
	return err
}

// Subject returns the subject for the given topic. Topics are lowercased and
// wildcards are replaced since they are reserved by NATS.
func Subject(prefix, topic string) string {
	topic = strings.ToLower(topic)
	topic = strings.NewReplacer("*", "all", ">", "all", " ", "_").Replace(topic)
	return fmt.Sprintf("%s.%s", prefix, topic)
}
