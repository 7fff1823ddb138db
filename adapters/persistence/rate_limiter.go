package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/photo-gallery/internal/application/service"
)

type redisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewRedisRateLimiter counts actions per key in a fixed window backed by
// INCR + EXPIRE.
func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration) service.RateLimiter {
	return &redisRateLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr failed: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire failed: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}
