// internal/api/ratelimit.go
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/database"
)

// Limiter reports whether key may make another request in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter shared by all instances.
type RedisLimiter struct {
	redis  *database.RedisClient
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(redis *database.RedisClient, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{redis: redis, limit: int64(limit), window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := l.now().UnixNano() / int64(l.window)
	k := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	count, err := l.redis.Client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.redis.Client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= l.limit, nil
}

// MemoryLimiter is the single-process fallback used when redis is absent.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewMemoryLimiter(limit int, windowSize time.Duration) *MemoryLimiter {
	return &MemoryLimiter{limit: limit, window: windowSize, windows: make(map[string]*window), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[key] = &window{start: now, count: 1}
		l.sweep(now)
		return true, nil
	}
	w.count++
	return w.count <= l.limit, nil
}

// sweep drops expired windows once the map grows.
func (l *MemoryLimiter) sweep(now time.Time) {
	if len(l.windows) < 1024 {
		return
	}
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, k)
		}
	}
}
