// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"rates_backend/internal/feature/rates/adapters/dukascopy"
	"rates_backend/internal/feature/rates/usecase"
	"rates_backend/internal/platform/cache"
	"rates_backend/internal/platform/config"
	infrahttp "rates_backend/internal/platform/http"
	"rates_backend/internal/shared/ratelimiter"
)

// NewRateFetcher creates the upstream feed client with HTTP client, call
// pacing and (when rdb is non-nil) a Redis read-through cache.
func NewRateFetcher(cfg config.Config, rdb *redis.Client) usecase.RateFetcher {
	feedCfg := dukascopy.Config{
		BaseURL:    cfg.FeedBaseURL,
		Instrument: cfg.Instrument,
		OfferSide:  cfg.PriceType,
		Timeout:    cfg.FeedTimeout,
		RetryCount: cfg.FeedRetryCount,
		RetryWait:  cfg.FeedRetryWait,
	}
	httpClient := infrahttp.NewHTTPClient(cfg.FeedTimeout)
	limiter := ratelimiter.NewRateLimiter(cfg.FeedRateLimit, time.Minute)
	feed := dukascopy.NewClient(feedCfg, httpClient, limiter)

	return cache.NewCachingRateFetcher(rdb, cfg.CacheTTL, feed, "rates")
}
