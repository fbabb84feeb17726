package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// IdempotencyGuard claims a request key so retried requests are rejected
// instead of creating duplicate orders.
type IdempotencyGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
}

type RedisIdempotencyGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotencyGuard(rdb *redis.Client) *RedisIdempotencyGuard {
	return &RedisIdempotencyGuard{rdb: rdb, ttl: 24 * time.Hour}
}

// Claim returns false when the key was already used within the TTL window.
func (g *RedisIdempotencyGuard) Claim(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("idempotent-key:%s", key)

	ok, err := g.rdb.SetNX(ctx, redisKey, "exists", g.ttl).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return ok, nil
}
