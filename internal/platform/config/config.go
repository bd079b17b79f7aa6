// Package config loads the process-wide, immutable service configuration.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is read once at startup and passed into components explicitly;
// request handlers never read the environment themselves.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Instrument and session window served by the /rates endpoint.
	Instrument       string `envconfig:"INSTRUMENT" default:"XAUUSD"`
	PriceType        string `envconfig:"PRICE_TYPE" default:"bid"`
	SessionStartHour int    `envconfig:"SESSION_START_HOUR" default:"8"`
	SessionEndHour   int    `envconfig:"SESSION_END_HOUR" default:"16"`

	// Shared-secret credential; empty disables authentication.
	APIKey string `envconfig:"API_KEY"`

	// Upstream feed.
	FeedBaseURL    string        `envconfig:"FEED_BASE_URL" required:"true"`
	FeedTimeout    time.Duration `envconfig:"FEED_TIMEOUT" default:"10s"`
	FeedRetryCount int           `envconfig:"FEED_RETRY_COUNT" default:"3"`
	FeedRetryWait  time.Duration `envconfig:"FEED_RETRY_WAIT" default:"2s"`
	FeedRateLimit  int           `envconfig:"FEED_RATE_LIMIT" default:"30"` // calls per minute

	// Optional Redis cache; empty RedisHost runs the service cache-less.
	RedisHost     string        `envconfig:"REDIS_HOST"`
	RedisPort     string        `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (Config, error) {
	// Best effort: a missing .env file is not an error
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.SessionStartHour < 0 || cfg.SessionEndHour > 24 || cfg.SessionStartHour >= cfg.SessionEndHour {
		return Config{}, fmt.Errorf("invalid session window: %d-%d", cfg.SessionStartHour, cfg.SessionEndHour)
	}
	return cfg, nil
}

// Session returns the display form of the configured session window.
func (c Config) Session() string {
	return fmt.Sprintf("%02d:00-%02d:00 UTC", c.SessionStartHour, c.SessionEndHour)
}

// RedisAddr returns the host:port address of the configured Redis instance.
func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
