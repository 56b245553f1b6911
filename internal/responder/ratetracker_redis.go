package responder

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateTracker implements RateLimiter on a Redis sorted set per lead:
// each response records its send time as both score and member, and Allow
// trims anything older than the window before counting what remains. This
// mirrors RateTracker's in-memory prune-then-count logic so a multi-process
// responder deployment shares one rolling window instead of each process
// under-counting independently.
type RedisRateTracker struct {
	client *redis.Client
	window time.Duration
	limit  int
	prefix string
}

func NewRedisRateTracker(client *redis.Client, limit int, window time.Duration) *RedisRateTracker {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Hour
	}
	return &RedisRateTracker{client: client, window: window, limit: limit, prefix: "responder:rate:"}
}

func (rt *RedisRateTracker) key(lead string) string {
	return rt.prefix + lead
}

func (rt *RedisRateTracker) Allow(lead string) bool {
	ctx := context.Background()
	key := rt.key(lead)
	cutoff := time.Now().Add(-rt.window)

	if err := rt.client.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", cutoff.UnixNano())).Err(); err != nil {
		return true
	}
	count, err := rt.client.ZCard(ctx, key).Result()
	if err != nil {
		return true
	}
	return count < int64(rt.limit)
}

func (rt *RedisRateTracker) Record(lead string) {
	ctx := context.Background()
	key := rt.key(lead)
	now := time.Now()
	rt.client.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	rt.client.Expire(ctx, key, rt.window+time.Minute)
}

func (rt *RedisRateTracker) Shutdown(ctx context.Context) error {
	return nil
}
