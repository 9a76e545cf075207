package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupKeyPrefix = "messenger:mid:"

// Deduplicator remembers which inbound message ids were already handled, so a
// redelivered webhook does not advance a conversation twice.
type Deduplicator interface {
	// Claim reports whether id is seen for the first time.
	Claim(ctx context.Context, id string) (bool, error)
}

type setNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

type RedisDeduplicator struct {
	rdb setNXer
	ttl time.Duration
}

func NewRedisDeduplicator(rdb *redis.Client, ttl time.Duration) *RedisDeduplicator {
	return &RedisDeduplicator{rdb: rdb, ttl: ttl}
}

func (d *RedisDeduplicator) Claim(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	return d.rdb.SetNX(ctx, dedupKeyPrefix+id, 1, d.ttl).Result()
}

// NoopDeduplicator claims every id. Used when no Redis is configured.
type NoopDeduplicator struct{}

func (NoopDeduplicator) Claim(context.Context, string) (bool, error) {
	return true, nil
}
