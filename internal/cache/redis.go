package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"alcosklad/pkg/logger"
)

const (
	redisKeyPrefix = "alcosklad:cache:"

	// defaultRetention bounds how long a durable entry can outlive its TTL.
	// Stale entries are still useful after a restart: they are served
	// immediately while a revalidation runs.
	defaultRetention = 24 * time.Hour
)

// RedisStore is the redis-backed Durable layer. Every operation is
// best-effort: failures are logged and swallowed so a redis outage
// degrades the cache to memory-only instead of failing requests.
type RedisStore struct {
	rdb       *redis.Client
	retention time.Duration
}

// NewRedisStore wraps an existing redis client as a durable cache layer.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, retention: defaultRetention}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := s.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn(ctx, "redis cache get failed", "key", key, "error", err)
		return nil, false
	}
	return payload, true
}

func (s *RedisStore) Set(ctx context.Context, key string, payload []byte) {
	if err := s.rdb.Set(ctx, redisKeyPrefix+key, payload, s.retention).Err(); err != nil {
		logger.Warn(ctx, "redis cache set failed", "key", key, "error", err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = redisKeyPrefix + key
	}
	if err := s.rdb.Del(ctx, prefixed...).Err(); err != nil {
		logger.Warn(ctx, "redis cache delete failed", "keys", len(keys), "error", err)
	}
}

func (s *RedisStore) Keys(ctx context.Context, prefix string) []string {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, redisKeyPrefix+prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(redisKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		logger.Warn(ctx, "redis cache scan failed", "prefix", prefix, "error", err)
	}
	return keys
}
