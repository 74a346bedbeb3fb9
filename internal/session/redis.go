package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix is prepended to every session key.
const DefaultRedisPrefix = "workopia:session:"

// redisClient is the subset of *redis.Client used by RedisStore.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps sessions in Redis so several application instances can
// share them.
type RedisStore struct {
	client redisClient
	prefix string
}

// NewRedisStore returns a store using client. An empty prefix selects
// DefaultRedisPrefix.
func NewRedisStore(client redisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// NewRedisClient parses redisURL, connects and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// storeErr reports a closed client as ErrStoreClosed.
func storeErr(op string, err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("redis %s session: %w", op, ErrStoreClosed)
	}

	return fmt.Errorf("redis %s session: %w", op, err)
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get", err)
	}

	return data, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, id)
	}

	if err := s.client.Set(ctx, s.key(id), data, ttl).Err(); err != nil {
		return storeErr("set", err)
	}

	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return storeErr("del", err)
	}

	return nil
}
