package httpinterface

import (
	"net/http"
	"sync"
	"time"

	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// EventStreamPath is where the event stream is served.
	EventStreamPath = "/v1/events"

	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	bufferSize   = 64
)

// EventStream pushes engine events to websocket clients. Clients select the
// topics they want with one or more `topic` query parameters and receive
// everything if they don't. EventStream is an event publisher, so that it
// can be plugged into the application layer like any other sink.
type EventStream struct {
	upgrader websocket.Upgrader

	lock    *sync.RWMutex
	clients map[*streamClient]struct{}
	closed  bool
}

// NewEventStream returns an empty event stream.
func NewEventStream() *EventStream {
	return &EventStream{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		lock:    &sync.RWMutex{},
		clients: make(map[*streamClient]struct{}),
	}
}

// Publish sends the event to every client subscribed to the topic. Clients
// too slow to keep up are disconnected rather than blocking the engine.
func (s *EventStream) Publish(topic string, data []byte) error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for c := range s.clients {
		if !c.wants(topic) {
			continue
		}
		select {
		case c.send <- data:
		default:
			log.Warn("event stream client too slow, disconnecting")
			go s.drop(c)
		}
	}
	return nil
}

// ServeHTTP upgrades the connection and streams events until the client
// goes away.
func (s *EventStream) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.lock.RLock()
	closed := s.closed
	s.lock.RUnlock()
	if closed {
		http.Error(w, "event stream closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade event stream connection")
		return
	}

	c := newStreamClient(conn, req.URL.Query()["topic"])
	s.lock.Lock()
	s.clients[c] = struct{}{}
	s.lock.Unlock()

	go c.readLoop(func() { s.drop(c) })
	c.writeLoop()
}

// Clients returns the number of connected clients.
func (s *EventStream) Clients() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.clients)
}

// Close disconnects all clients and refuses new ones.
func (s *EventStream) Close() {
	s.lock.Lock()
	s.closed = true
	clients := make([]*streamClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.lock.Unlock()

	for _, c := range clients {
		s.drop(c)
	}
}

func (s *EventStream) drop(c *streamClient) {
	s.lock.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.lock.Unlock()

	if ok {
		c.close()
	}
}

type streamClient struct {
	conn   *websocket.Conn
	topics map[string]struct{}
	send   chan []byte
	quit   chan struct{}
	once   *sync.Once
}

func newStreamClient(conn *websocket.Conn, topics []string) *streamClient {
	filter := make(map[string]struct{})
	for _, t := range topics {
		if t == ports.AnyTopic {
			filter = nil
			break
		}
		filter[t] = struct{}{}
	}
	return &streamClient{
		conn:   conn,
		topics: filter,
		send:   make(chan []byte, bufferSize),
		quit:   make(chan struct{}),
		once:   &sync.Once{},
	}
}

func (c *streamClient) wants(topic string) bool {
	if len(c.topics) <= 0 {
		return true
	}
	_, ok := c.topics[topic]
	return ok
}

// readLoop discards incoming messages and notices when the peer closes the
// connection.
func (c *streamClient) readLoop(onClose func()) {
	defer onClose()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err, websocket.CloseGoingAway, websocket.CloseNormalClosure,
			) {
				log.WithError(err).Debug("event stream client disconnected")
			}
			return
		}
	}
}

func (c *streamClient) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.quit:
			c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout),
			)
			c.conn.Close()
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.conn.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(
				websocket.PingMessage, nil, time.Now().Add(writeTimeout),
			); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}

func (c *streamClient) close() {
	c.once.Do(func() { close(c.quit) })
}
