package membus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rkapoor/telecare-api/pkg/messaging"
	"github.com/rkapoor/telecare-api/pkg/metrics"
)

const defaultBufferSize = 64

// Bus is an in-process messaging.Broker. Topics are created on first use
// and torn down when their last subscriber leaves. Each topic has its own
// lock, so publish/subscribe traffic on unrelated topics never contends.
type Bus struct {
	logger  *zerolog.Logger
	metrics *metrics.Metrics
	bufSize int

	mu     sync.RWMutex // guards the topic map only, never held during delivery
	topics map[string]*topic
	closed bool
}

type topic struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan []byte
}

type Option func(*Bus)

// WithBufferSize sets the per-subscriber buffer. A subscriber that falls
// further behind than this loses events rather than blocking publishers.
func WithBufferSize(n int) Option {
	return func(b *Bus) { b.bufSize = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bus) { b.metrics = m }
}

func NewBus(logger *zerolog.Logger, opts ...Option) *Bus {
	b := &Bus{
		logger:  logger,
		bufSize: defaultBufferSize,
		topics:  make(map[string]*topic),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) Publish(ctx context.Context, topicName string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("bus is closed")
	}
	t := b.topics[topicName]
	b.mu.RUnlock()

	if t == nil {
		// Nobody listening; best-effort delivery means this is fine.
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.subs {
		select {
		case ch <- payload:
		default:
			// Subscriber buffer full. Dropping keeps one slow consumer
			// from stalling every other subscriber of the topic.
			if b.metrics != nil {
				b.metrics.EventsDropped.Inc()
			}
			if b.logger != nil {
				b.logger.Warn().Str("topic", topicName).Msg("dropping event for slow subscriber")
			}
		}
	}

	if b.metrics != nil {
		b.metrics.EventsPublished.WithLabelValues(topicKind(topicName)).Inc()
	}
	return nil
}

func (b *Bus) Subscribe(ctx context.Context, topicName string) (*messaging.Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, fmt.Errorf("bus is closed")
	}
	t := b.topics[topicName]
	if t == nil {
		t = &topic{subs: make(map[uint64]chan []byte)}
		b.topics[topicName] = t
	}
	b.mu.Unlock()

	ch := make(chan []byte, b.bufSize)

	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = ch
	t.mu.Unlock()

	if b.metrics != nil {
		b.metrics.ActiveSubscribers.Inc()
	}

	done := make(chan struct{})
	cancel := func() {
		close(done)
		if b.remove(topicName, t, id) && b.metrics != nil {
			b.metrics.ActiveSubscribers.Dec()
		}
	}

	sub := messaging.NewSubscription(topicName, ch, cancel)

	// Honor caller cancellation: a disconnected client must release its
	// subscription without any explicit Cancel call.
	go func() {
		select {
		case <-ctx.Done():
			sub.Cancel()
		case <-done:
		}
	}()

	return sub, nil
}

// remove detaches one subscriber and closes its channel. The channel close
// happens under the topic lock so it cannot race a concurrent Publish send.
func (b *Bus) remove(topicName string, t *topic, id uint64) bool {
	t.mu.Lock()
	ch, ok := t.subs[id]
	if ok {
		delete(t.subs, id)
		close(ch)
	}
	empty := len(t.subs) == 0
	t.mu.Unlock()

	if empty {
		b.mu.Lock()
		// Re-check under the map lock; a new subscriber may have arrived.
		t.mu.Lock()
		if len(t.subs) == 0 && b.topics[topicName] == t {
			delete(b.topics, topicName)
		}
		t.mu.Unlock()
		b.mu.Unlock()
	}
	return ok
}

func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	topics := b.topics
	b.topics = make(map[string]*topic)
	b.mu.Unlock()

	for _, t := range topics {
		t.mu.Lock()
		for id, ch := range t.subs {
			delete(t.subs, id)
			close(ch)
			if b.metrics != nil {
				b.metrics.ActiveSubscribers.Dec()
			}
		}
		t.mu.Unlock()
	}
	return nil
}

func topicKind(topicName string) string {
	if i := strings.IndexByte(topicName, ':'); i > 0 {
		return topicName[:i]
	}
	return "other"
}
