package service

import "context"

// RateLimiter bounds how often a key may perform an action inside a fixed
// window. Allow reports whether the call is within budget.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
