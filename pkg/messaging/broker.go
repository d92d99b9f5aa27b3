package messaging

import (
	"context"
	"sync"
)

// Broker is the delivery contract shared by every real-time feature:
// per-topic broadcast to whoever is subscribed at publish time. Undelivered
// events are not buffered or replayed; durable collaborators persist their
// own history.
type Broker interface {
	// Publish delivers message to every current subscriber of topic.
	// A topic with no subscribers is not an error.
	Publish(ctx context.Context, topic string, message interface{}) error

	// Subscribe opens a live stream of events for topic. Each subscriber
	// receives every event published while it is subscribed, in publish
	// order. The stream ends when the subscription is cancelled or the
	// broker closes.
	Subscribe(ctx context.Context, topic string) (*Subscription, error)

	Close() error
}

// Subscription is one subscriber's handle on a topic stream.
type Subscription struct {
	Topic string

	// C carries JSON-encoded events. It is closed when the subscription
	// is cancelled.
	C <-chan []byte

	cancel     func()
	cancelOnce sync.Once
}

// NewSubscription wires a subscription around a delivery channel and a
// teardown function. Intended for Broker implementations.
func NewSubscription(topic string, c <-chan []byte, cancel func()) *Subscription {
	return &Subscription{Topic: topic, C: c, cancel: cancel}
}

// Cancel tears the subscription down and releases its resources. Safe to
// call more than once and safe to call concurrently with Publish.
func (s *Subscription) Cancel() {
	s.cancelOnce.Do(s.cancel)
}
