package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rkapoor/telecare-api/pkg/messaging"
)

// Broker implements messaging.Broker over Redis pub/sub. Used when more
// than one API process serves the same client population; the in-process
// bus covers the single-node case.
type Broker struct {
	client *redis.Client
	logger *zerolog.Logger
}

type Config struct {
	URL          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
}

func NewBroker(config Config, logger *zerolog.Logger) (*Broker, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaxRetries = config.MaxRetries
	opts.MinRetryBackoff = config.RetryBackoff
	opts.PoolSize = config.PoolSize
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Broker{
		client: client,
		logger: logger,
	}, nil
}

func (b *Broker) Publish(ctx context.Context, topic string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return b.client.Publish(ctx, topic, payload).Err()
}

func (b *Broker) Subscribe(ctx context.Context, topic string) (*messaging.Subscription, error) {
	pubsub := b.client.Subscribe(ctx, topic)
	msgChan := make(chan []byte, 100)

	subCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer func() {
			pubsub.Close()
			close(msgChan)
		}()

		for {
			msg, err := pubsub.ReceiveMessage(subCtx)
			if err != nil {
				if subCtx.Err() != nil {
					return
				}
				continue
			}
			select {
			case msgChan <- []byte(msg.Payload):
			case <-subCtx.Done():
				return
			}
		}
	}()

	return messaging.NewSubscription(topic, msgChan, cancel), nil
}

func (b *Broker) Close() error {
	return b.client.Close()
}
