package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "bridge:qa:"

// RedisStore implements ExactStore on Redis. SET is an atomic upsert, which
// is all the write-concurrency model requires. A nil client degrades to
// a permanent miss.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	if s.rdb == nil {
		return nil, nil
	}
	data, err := s.rdb.Get(ctx, redisKeyPrefix+fingerprint).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	if e.Expired(time.Now()) {
		return nil, nil
	}
	return &e, nil
}

func (s *RedisStore) Put(ctx context.Context, e *Entry, ttl time.Duration) error {
	if s.rdb == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+e.Fingerprint, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
