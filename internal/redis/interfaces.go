package redis

import "context"

// RateLimiterInterface defines the interface for attempt throttling.
type RateLimiterInterface interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// Ensure concrete types implement interfaces.
var _ RateLimiterInterface = (*RateLimiter)(nil)
