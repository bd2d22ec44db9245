package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"dareNowConsole/internal/modules/session/application/port"
)

const defaultRedisPrefix = "darenow:"

// RedisStore keeps session keys in Redis so several consoles share them. Each write also
// publishes the changed keys on a channel that Watch subscribes to.
type RedisStore struct {
	client *redis.Client
	prefix string
	origin string
}

type redisChange struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// NewRedisStore creates a Redis-backed store. origin tags the change notices of this process.
func NewRedisStore(client *redis.Client, prefix, origin string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, origin: origin}
}

func (r *RedisStore) key(key string) string {
	return r.prefix + key
}

func (r *RedisStore) channel() string {
	return r.prefix + "changes"
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", port.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisStore) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range values {
			pipe.Set(ctx, r.key(key), value, 0)
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	r.announce(ctx, keys)
	return nil
}

func (r *RedisStore) DeleteMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = r.key(key)
	}
	if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	r.announce(ctx, keys)
	return nil
}

// Watch reports keys changed by other consoles until ctx is done.
func (r *RedisStore) Watch(ctx context.Context, fn func(port.StorageChange)) error {
	pubsub := r.client.Subscribe(ctx, r.channel())
	defer func() { _ = pubsub.Close() }()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", r.channel(), err)
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var change redisChange
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				slog.Debug("redis change notice ignored", slog.String("payload", msg.Payload), slog.Any("error", err))
				continue
			}
			if change.Key == "" {
				continue
			}
			fn(port.StorageChange{Key: change.Key, Origin: change.Origin})
		}
	}
}

func (r *RedisStore) announce(ctx context.Context, keys []string) {
	for _, key := range keys {
		payload, err := json.Marshal(redisChange{Key: key, Origin: r.origin})
		if err != nil {
			continue
		}
		if err := r.client.Publish(ctx, r.channel(), payload).Err(); err != nil {
			slog.Warn("redis change notice failed", slog.String("key", key), slog.Any("error", err))
		}
	}
}

var (
	_ port.KeyValueStore  = (*RedisStore)(nil)
	_ port.StorageWatcher = (*RedisStore)(nil)
)
