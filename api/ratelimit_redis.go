package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter keeps fixed-window counters in Redis so all instances share
// one quota. Counters expire with the window; INCR past the limit never
// extends it.
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter creates a limiter using the provided Redis client.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (l *RedisLimiter) key(identifier string) string {
	return fmt.Sprintf("ratelimit:%s", identifier)
}

// Limit increments the identifier's window counter and reports the verdict.
func (l *RedisLimiter) Limit(ctx context.Context, identifier string, q Quota) (Result, error) {
	key := l.key(identifier)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	count := incr.Val()
	ttl := pttl.Val()
	if count == 1 || ttl < 0 {
		// First hit of a window, or a counter left without expiry.
		if err := l.client.PExpire(ctx, key, q.Window).Err(); err != nil {
			return Result{}, err
		}
		ttl = q.Window
	}
	reset := time.Now().Add(ttl)

	if count > int64(q.Requests) {
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	return Result{Allowed: true, Remaining: q.Requests - int(count), Reset: reset}, nil
}
