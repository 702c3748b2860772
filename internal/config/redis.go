package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the global Redis client, nil when Redis is disabled or
// was unreachable at boot
var RedisClient *redis.Client

// ConnectRedis returns a Redis client for rate limiting, or nil when Redis
// is disabled or unreachable. Callers fall back to the in-memory limiter.
func ConnectRedis(cfg *Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable, falling back to in-memory rate limiter: %v", err)
		client.Close()
		return nil
	}

	log.Printf("✅ Redis connected successfully [%s]", cfg.Redis.Addr)
	RedisClient = client
	return client
}

// RedisHealthCheck pings the Redis client. Returns nil when Redis is not
// in use.
func RedisHealthCheck() error {
	if RedisClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return RedisClient.Ping(ctx).Err()
}
