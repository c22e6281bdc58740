package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher pushes a saved team document to live viewers.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// Nop discards every payload. It stands in when broadcasting is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, []byte) error { return nil }

// Multi publishes to each publisher in turn and returns the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, payload []byte) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(ctx, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RedisBroadcaster publishes team documents on a Redis pub/sub channel.
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisBroadcaster(redisURL, channel string, logger *slog.Logger) (*RedisBroadcaster, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBroadcaster{client: client, channel: channel, logger: logger}, nil
}

func (rb *RedisBroadcaster) Close() error {
	return rb.client.Close()
}

func (rb *RedisBroadcaster) Publish(ctx context.Context, payload []byte) error {
	n, err := rb.client.Publish(ctx, rb.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", rb.channel, err)
	}
	rb.logger.Debug("team broadcast", "channel", rb.channel, "receivers", n)
	return nil
}

// Subscribe delivers every message published on the channel until ctx is
// cancelled, then closes the returned channel.
func (rb *RedisBroadcaster) Subscribe(ctx context.Context) (<-chan []byte, error) {
	sub := rb.client.Subscribe(ctx, rb.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", rb.channel, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
