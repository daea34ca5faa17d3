package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// windowCounter is the shared state behind the rate limiter: an
// increment-and-check over a fixed time window. Hit returns the count
// including the current request and how long until the window resets.
// Implementations must be safe under concurrent increments for the same
// key — two racing requests must observe distinct counts so a client
// can never slip past the budget by racing the boundary.
type windowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, reset time.Duration, err error)
}

// redisCounter implements windowCounter on a shared Redis instance so
// the budget holds across replicas. The Lua script makes the
// increment, expiry bootstrap and TTL read one atomic step.
type redisCounter struct {
	rdb    *redis.Client
	script *redis.Script
}

func newRedisCounter(rdb *redis.Client) *redisCounter {
	return &redisCounter{
		rdb: rdb,
		script: redis.NewScript(`
            local count = redis.call('INCR', KEYS[1])
            if count == 1 then
                redis.call('PEXPIRE', KEYS[1], ARGV[1])
            end
            local ttl = redis.call('PTTL', KEYS[1])
            if ttl < 0 then
                redis.call('PEXPIRE', KEYS[1], ARGV[1])
                ttl = tonumber(ARGV[1])
            end
            return { count, ttl }
        `),
	}
}

func (c *redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	vals, err := c.script.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, 0, err
	}
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 2 {
		return 0, 0, redis.Nil
	}
	count, _ := arr[0].(int64)
	ttlMs, _ := arr[1].(int64)
	return count, time.Duration(ttlMs) * time.Millisecond, nil
}

// memoryCounter implements windowCounter with a mutex-guarded table.
// Used when no Redis is configured; the budget is then per process.
type memoryCounter struct {
	mu      sync.Mutex
	windows map[string]*windowEntry
}

type windowEntry struct {
	count   int64
	resetAt time.Time
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{windows: make(map[string]*windowEntry)}
}

func (c *memoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.windows[key]
	if !ok || now.After(e.resetAt) {
		e = &windowEntry{resetAt: now.Add(window)}
		c.windows[key] = e
		// Opportunistically drop other elapsed windows so the table does
		// not grow with one entry per client forever.
		for k, v := range c.windows {
			if now.After(v.resetAt) {
				delete(c.windows, k)
			}
		}
	}
	e.count++
	return e.count, time.Until(e.resetAt), nil
}
