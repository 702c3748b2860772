// Package ratelimit provides a fixed-window request limiter behind an
// interface so single-instance deployments use the in-process store and
// multi-instance deployments can share counters through Redis.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether a keyed request may proceed within the current
// window. retryAfter is only meaningful when allowed is false.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// Config holds fixed-window limiter settings
type Config struct {
	Max    int           // requests allowed per window
	Window time.Duration // window length
}

// DefaultAuthConfig matches the auth endpoint throttle: 5 attempts per 15 minutes
func DefaultAuthConfig() Config {
	return Config{Max: 5, Window: 15 * time.Minute}
}
