package ports

// AnyTopic subscribes to every topic.
const AnyTopic = "*"

// Subscription ...
type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// EventPublisher forwards engine events to an external sink.
type EventPublisher interface {
	Publish(topic string, message []byte) error
}

// PubSub defines the methods of a pubsub service forwarding engine events to
// external subscribers.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes the subscription with the given id.
	Unsubscribe(id string) error
	// ListSubscriptionsForTopic returns all subscriptions receiving messages
	// of a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic will receive the message.
	EventPublisher
	Close()
}
