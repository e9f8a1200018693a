package cache

import (
	"context"
	"strconv"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
)

const (
	listKeyPrefix = "list:"
	generationKey = "list-generation"

	// fillTimeout bounds a store read shared by joined callers.
	fillTimeout = 10 * time.Second
)

// ListCache caches task list pages with the cache-aside pattern.
// Pages are keyed by a generation counter held in Redis; Invalidate bumps
// it, so a page filled before an invalidation is never read after it.
// Concurrent misses for the same query share a single store read.
type ListCache struct {
	cache  *Cache
	group  singleflight.Group
	logger types.Logger
}

// NewListCache creates a list cache on top of c.
func NewListCache(c *Cache, logger types.Logger) *ListCache {
	return &ListCache{cache: c, logger: logger}
}

// Load returns the cached page for q or calls fill and caches its result.
// Redis failures degrade to calling fill directly.
func (l *ListCache) Load(ctx context.Context, q domain.ListQuery, fill func(context.Context) (*domain.ListResult, error)) (*domain.ListResult, error) {
	gen, err := l.cache.Counter(ctx, generationKey)
	if err != nil {
		l.logger.Warn("List cache unavailable, reading store", "error", err)
		return fill(ctx)
	}
	key := pageKey(gen, q)

	var cached domain.ListResult
	hit, err := l.cache.Get(ctx, key, &cached)
	if err != nil {
		l.logger.Warn("List cache read failed", "key", key, "error", err)
		if err := l.cache.Delete(ctx, key); err != nil {
			l.logger.Warn("List cache cleanup failed", "key", key, "error", err)
		}
	}
	if hit {
		return &cached, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		// Joined callers must not fail because the first one went away.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fillTimeout)
		defer cancel()

		res, err := fill(fctx)
		if err != nil {
			return nil, err
		}
		if err := l.cache.Set(fctx, key, res); err != nil {
			l.logger.Warn("List cache write failed", "key", key, "error", err)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.ListResult), nil
}

// Invalidate starts a new generation and drops the previous one's pages.
// Pages written late under an older generation are unreachable and expire
// with their TTL.
func (l *ListCache) Invalidate(ctx context.Context) error {
	gen, err := l.cache.Incr(ctx, generationKey)
	if err != nil {
		return err
	}
	n, err := l.cache.DeletePattern(ctx, listKeyPrefix+strconv.FormatInt(gen-1, 10)+":*")
	if err != nil {
		return err
	}
	l.logger.Debug("List cache invalidated", "generation", gen, "keys", n)
	return nil
}

// Stats returns the underlying cache counters.
func (l *ListCache) Stats() StatsSnapshot {
	return l.cache.Stats()
}

// ResetStats zeroes the underlying cache counters.
func (l *ListCache) ResetStats() {
	l.cache.ResetStats()
}

func pageKey(gen int64, q domain.ListQuery) string {
	return listKeyPrefix + strconv.FormatInt(gen, 10) + ":" + q.CacheKey()
}
