package mediator

import (
	"context"
	"log/slog"
	"time"
)

// Config holds mediator defaults. It is loadable with core/config.
type Config struct {
	CacheTTL        time.Duration `env:"MEDIATOR_CACHE_TTL" envDefault:"5m"`
	CacheMaxResends int           `env:"MEDIATOR_CACHE_MAX_RESENDS" envDefault:"1"`
	ObserverBuffer  int           `env:"MEDIATOR_OBSERVER_BUFFER" envDefault:"64"`

	// Logger settings, read by callers that build the logger passed to WithLogger.
	// Environment selects a preset (development, staging, production).
	// LogLevel and LogFormat override the preset when set.
	Environment string `env:"MEDIATOR_ENV"`
	LogLevel    string `env:"MEDIATOR_LOG_LEVEL"`
	LogFormat   string `env:"MEDIATOR_LOG_FORMAT"`
}

// DefaultConfig returns the values used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		CacheTTL:        5 * time.Minute,
		CacheMaxResends: 1,
		ObserverBuffer:  64,
	}
}

// Option configures a Mediator.
type Option func(*Mediator)

// WithConfig applies cfg. Non-positive fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(m *Mediator) {
		WithDefaultCacheTTL(cfg.CacheTTL)(m)
		WithDefaultMaxResends(cfg.CacheMaxResends)(m)
		WithObserverBuffer(cfg.ObserverBuffer)(m)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mediator) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock replaces time.Now for cache expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(m *Mediator) {
		if now != nil {
			m.now = now
		}
	}
}

// WithDefaultCacheTTL sets the lifetime of cached broadcasts that specify no deadline.
func WithDefaultCacheTTL(ttl time.Duration) Option {
	return func(m *Mediator) {
		if ttl > 0 {
			m.defaultTTL = ttl
		}
	}
}

// WithDefaultMaxResends sets the replay budget of cached broadcasts that specify none.
func WithDefaultMaxResends(n int) Option {
	return func(m *Mediator) {
		if n > 0 {
			m.defaultMaxResends = n
		}
	}
}

// WithObserverBuffer sets the per-observer buffer of broadcast notifications.
func WithObserverBuffer(size int) Option {
	return func(m *Mediator) {
		if size > 0 {
			m.observerBuffer = size
		}
	}
}

type registerConfig struct {
	excludeCached bool
	bindErr       func() (errorSink, bool)
}

// RegisterOption configures a single registration.
type RegisterOption func(*registerConfig)

// ExcludeCached skips replaying cached broadcasts to the new subscriber.
func ExcludeCached() RegisterOption {
	return func(c *registerConfig) {
		c.excludeCached = true
	}
}

// WithErrorHandler routes the subscriber's dispatch faults to fn instead of the
// broadcaster. The owner is tracked weakly like the subscriber itself; once it
// is collected, faults escalate again. A nil owner or fn is ignored.
func WithErrorHandler[E any](owner *E, fn func(owner *E, ctx context.Context, err error)) RegisterOption {
	return func(c *registerConfig) {
		if owner == nil || fn == nil {
			return
		}
		c.bindErr = newErrorBinder(owner, fn)
	}
}

// CacheOptions keeps a broadcast for replay to subscribers that register later.
type CacheOptions struct {
	// ExpiresAt is the absolute deadline. It wins over TTL.
	ExpiresAt time.Time
	// TTL is the lifetime relative to the broadcast. Zero means the mediator
	// default; a negative TTL yields an entry that is already expired.
	TTL time.Duration
	// MaxResends caps how many late subscribers receive the entry.
	MaxResends int
}

type broadcastConfig struct {
	cache *CacheOptions
}

// BroadcastOption configures a single broadcast.
type BroadcastOption func(*broadcastConfig)

// WithCache stores the broadcast for replay. Zero fields fall back to the
// mediator defaults.
func WithCache(opts CacheOptions) BroadcastOption {
	return func(c *broadcastConfig) {
		c.cache = &opts
	}
}
