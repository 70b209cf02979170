package kvstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const redisOpTimeout = 5 * time.Second

// RedisStore keeps each key as a plain Redis string holding the serialized
// JSON value. Keys never expire; the wallet data is the primary copy, not a
// cache.
type RedisStore struct {
	client *goredis.Client
	logger *slog.Logger
}

// NewRedisStore connects to the Redis instance at addr and verifies the
// connection with a ping.
func NewRedisStore(addr string, logger *slog.Logger) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore{client: client, logger: logger}, nil
}

func (s *RedisStore) Get(key string) json.RawMessage {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			s.logger.Error("Failed to read key", "key", key, "error", err)
		}
		return nil
	}
	return raw
}

func (s *RedisStore) Set(key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("Failed to serialize value", "key", key, "error", err)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		s.logger.Error("Failed to write key", "key", key, "error", err)
		return false
	}
	return true
}

func (s *RedisStore) Remove(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("Failed to delete key", "key", key, "error", err)
		return false
	}
	return true
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
