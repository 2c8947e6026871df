package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// RedisLimiter shares counters between instances. Every hit pipelines INCR with
// EXPIRE NX, so a key always ends up with a TTL even if an earlier EXPIRE was
// lost. EXPIRE NX needs Redis 7.
type RedisLimiter struct {
	client rueidis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisClient(addr string) (rueidis.Client, error) {
	return rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
}

func NewRedisLimiter(client rueidis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key

	seconds := int64(l.window / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	resps := l.client.DoMulti(ctx,
		l.client.B().Incr().Key(k).Build(),
		l.client.B().Expire().Key(k).Seconds(seconds).Nx().Build(),
	)

	count, err := resps[0].AsInt64()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if err := resps[1].Error(); err != nil {
		return false, fmt.Errorf("rate limit expire: %w", err)
	}

	return count <= l.limit, nil
}
