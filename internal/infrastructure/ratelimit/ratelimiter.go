// Package ratelimit implements sliding-window request limits backed by Redis
// sorted sets.
package ratelimit

import (
	"context"
	"time"
)

// Limits caps requests per key. A non-positive limit disables that window.
type Limits struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limits Limits) (bool, error)
	GetCount(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
