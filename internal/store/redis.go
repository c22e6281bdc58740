package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const historyLimit = 50

// RedisConfig stores the current configuration of a segment in a hash and
// keeps a capped list of previous versions.
type RedisConfig struct {
	client *redis.Client
	prefix string
}

// NewRedisConfig connects to redisURL and verifies the connection.
func NewRedisConfig(redisURL string) (*RedisConfig, error) {
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

	return NewRedisConfigFromClient(client), nil
}

// NewRedisConfigFromClient wraps an existing client.
func NewRedisConfigFromClient(client *redis.Client) *RedisConfig {
	return &RedisConfig{client: client, prefix: "team:config:"}
}

func (rc *RedisConfig) Close() error {
	return rc.client.Close()
}

type redisEntry struct {
	ID      int64  `json:"id"`
	Version string `json:"version"`
	Content string `json:"content"`
	At      int64  `json:"at"`
}

func (rc *RedisConfig) Set(ctx context.Context, segment, version, content string) error {
	key := rc.prefix + segment

	id, err := rc.client.Incr(ctx, key+":seq").Result()
	if err != nil {
		return fmt.Errorf("allocating configuration id: %w", err)
	}
	now := time.Now().UTC().Unix()

	entry, err := json.Marshal(redisEntry{ID: id, Version: version, Content: content, At: now})
	if err != nil {
		return err
	}

	_, err = rc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"id":         id,
			"version":    version,
			"content":    content,
			"updated_at": now,
		})
		pipe.LPush(ctx, key+":history", entry)
		pipe.LTrim(ctx, key+":history", 0, historyLimit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storing configuration: %w", err)
	}
	return nil
}

func (rc *RedisConfig) Get(ctx context.Context, segment string) (Config, error) {
	fields, err := rc.client.HGetAll(ctx, rc.prefix+segment).Result()
	if err != nil {
		return Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	if len(fields) == 0 {
		return Config{}, ErrNotFound
	}

	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("decoding configuration id: %w", err)
	}
	at, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("decoding configuration timestamp: %w", err)
	}
	return Config{
		ID:        id,
		Segment:   segment,
		Version:   fields["version"],
		Content:   fields["content"],
		UpdatedAt: time.Unix(at, 0).UTC(),
	}, nil
}

func (rc *RedisConfig) History(ctx context.Context, segment string) ([]Config, error) {
	raw, err := rc.client.LRange(ctx, rc.prefix+segment+":history", 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	out := make([]Config, 0, len(raw))
	for _, r := range raw {
		var e redisEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("decoding history entry: %w", err)
		}
		out = append(out, Config{
			ID:        e.ID,
			Segment:   segment,
			Version:   e.Version,
			Content:   e.Content,
			UpdatedAt: time.Unix(e.At, 0).UTC(),
		})
	}
	return out, nil
}
