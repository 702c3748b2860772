package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter backed by a shared Redis instance,
// safe across multiple server processes.
type RedisLimiter struct {
	cfg    Config
	client *redis.Client
	prefix string
}

// NewRedisLimiter creates a Redis-backed limiter
func NewRedisLimiter(cfg Config, client *redis.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{cfg: cfg, client: client, prefix: prefix}
}

// Allow increments the window counter for key via INCR and sets the window
// TTL on first hit. Redis errors fail open so an outage never locks out logins.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := l.prefix + ":" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, 0, err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.cfg.Window).Err(); err != nil {
			return true, 0, err
		}
	}

	if count > int64(l.cfg.Max) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.cfg.Window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}
