package engine

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for New()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger   *slog.Logger
	Cache    SeriesCache
	Clock    clockwork.Clock // cache expiry and analysis timing
	CacheTTL time.Duration   // used when no cache is injected
}

// WithLogger sets the logger for per-analysis debug lines.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.Logger = logger
	}
}

// WithCache injects the series cache. Pass NoopCache{} to disable caching.
func WithCache(cache SeriesCache) Option {
	return func(c *config) {
		c.Cache = cache
	}
}

// WithClock sets the clock used by the default cache and for timing.
func WithClock(clock clockwork.Clock) Option {
	return func(c *config) {
		c.Clock = clock
	}
}

// WithCacheTTL sets the lifetime of entries in the default cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.CacheTTL = ttl
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		CacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Cache == nil {
		cfg.Cache = NewTTLCache(cfg.CacheTTL, cfg.Clock)
	}
	return cfg
}
