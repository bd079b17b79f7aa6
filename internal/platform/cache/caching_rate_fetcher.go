// Package cache provides caching implementations for fetcher interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rates_backend/internal/feature/rates/domain/entity"
	"rates_backend/internal/feature/rates/usecase"
)

// CachingRateFetcher decorates a RateFetcher with Redis caching. It
// implements the decorator pattern, transparently adding caching without
// modifying the underlying fetcher.
//
// Keys cover one (timeframe, window) pair, so a completed session is served
// from cache for the TTL while live windows, whose bounds move with the
// clock, naturally stay uncached.
type CachingRateFetcher struct {
	inner     usecase.RateFetcher
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingRateFetcher decorates a RateFetcher with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "rates".
func NewCachingRateFetcher(rdb *redis.Client, ttl time.Duration, inner usecase.RateFetcher, namespace string) *CachingRateFetcher {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "rates"
	}
	return &CachingRateFetcher{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FetchCandles retrieves candles, checking cache first then falling back to
// the upstream feed.
func (c *CachingRateFetcher) FetchCandles(ctx context.Context, tf usecase.Timeframe, from, to time.Time) ([]entity.Candle, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FetchCandles(ctx, tf, from, to)
	}

	key := c.cacheKey(tf, from, to)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the upstream feed
	out, err := c.inner.FetchCandles(ctx, tf, from, to)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a specific fetch window.
func (c *CachingRateFetcher) cacheKey(tf usecase.Timeframe, from, to time.Time) string {
	return fmt.Sprintf("%s:%s:%d:%d", c.namespace, tf, from.Unix(), to.Unix())
}
