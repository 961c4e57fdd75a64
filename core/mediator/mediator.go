package mediator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/RenFontes/Courier/core/logger"
	"github.com/RenFontes/Courier/pkg/broadcast"
)

// Mediator dispatches messages between components that hold no references to
// each other. Subscribers are tracked weakly and invoked synchronously on the
// broadcaster's goroutine. A Mediator is safe for concurrent use.
type Mediator struct {
	subscribers *registry
	cache       *cache
	observers   *broadcast.MemoryBroadcaster[Observation]

	logger            *slog.Logger
	now               func() time.Time
	defaultTTL        time.Duration
	defaultMaxResends int
	observerBuffer    int

	closed     atomic.Bool
	broadcasts atomic.Int64
	faults     atomic.Int64
}

// Stats is a point-in-time view of a mediator.
type Stats struct {
	Subscribers    int
	CachedMessages int
	Broadcasts     int64
	Faults         int64
}

// New creates a Mediator.
//
// Example:
//
//	m := mediator.New(
//	    mediator.WithLogger(logger),
//	    mediator.WithDefaultCacheTTL(time.Minute),
//	)
func New(opts ...Option) *Mediator {
	defaults := DefaultConfig()
	m := &Mediator{
		subscribers:       newRegistry(),
		cache:             newCache(),
		logger:            logger.Discard(),
		now:               time.Now,
		defaultTTL:        defaults.CacheTTL,
		defaultMaxResends: defaults.CacheMaxResends,
		observerBuffer:    defaults.ObserverBuffer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With(logger.Component("mediator"))
	m.observers = broadcast.NewMemoryBroadcaster[Observation](m.observerBuffer)

	return m
}

// Unregister removes the subscription identified by token.
// Unknown tokens are ignored; only the zero token is rejected.
func (m *Mediator) Unregister(token Token) error {
	if token.IsZero() {
		return fmt.Errorf("%w: token is required", ErrInvalidArgument)
	}
	m.subscribers.remove(token)
	return nil
}

// IsSubscribed reports whether token belongs to a live subscription.
func (m *Mediator) IsSubscribed(token Token) bool {
	return m.subscribers.isRegistered(token)
}

// IsCached reports whether an unexpired broadcast of message is cached.
func (m *Mediator) IsCached(message string) bool {
	return m.cache.isCached(m.now(), message)
}

// RemoveFromCache drops the cached broadcast identified by token regardless of
// its expiry policy. It returns true when nothing is cached under token
// afterwards, including when it was already gone.
func (m *Mediator) RemoveFromCache(token Token) bool {
	return m.cache.removeByToken(token)
}

// Stats returns current counters.
func (m *Mediator) Stats() Stats {
	return Stats{
		Subscribers:    m.subscribers.len(),
		CachedMessages: m.cache.len(m.now()),
		Broadcasts:     m.broadcasts.Load(),
		Faults:         m.faults.Load(),
	}
}

// Close drops all subscriptions and cached broadcasts and closes observers.
// Registering or broadcasting afterwards returns ErrClosed.
func (m *Mediator) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	stats := m.Stats()
	m.cache.clear()
	m.subscribers.clear()

	m.logger.Debug("mediator closed",
		logger.Group("stats",
			logger.Count("subscribers", stats.Subscribers),
			logger.Count("cached", stats.CachedMessages),
			slog.Int64("broadcasts", stats.Broadcasts),
			slog.Int64("faults", stats.Faults)))

	return m.observers.Close()
}

// deliver invokes one subscriber. A fault goes to the subscriber's live error
// handler when there is one; otherwise it is returned for escalation.
func (m *Mediator) deliver(ctx context.Context, message string, b binding, payload any) error {
	ctx = withDelivery(ctx, message, b.token)

	err := safeInvoke(func() error { return b.invoke(ctx, payload) })
	if err == nil {
		return nil
	}

	m.faults.Add(1)
	derr := &DispatchError{Message: message, Token: b.token, Err: err}

	if sink, ok := b.errorHandler(); ok {
		herr := safeInvoke(func() error {
			sink(ctx, derr)
			return nil
		})
		if herr == nil {
			m.logger.DebugContext(ctx, "subscriber fault handled",
				logger.Message(message),
				logger.Token(b.token.ID()),
				logger.Error(err))
			return nil
		}
		m.logger.ErrorContext(ctx, "subscriber error handler failed",
			logger.Message(message),
			logger.Token(b.token.ID()),
			panicAttr(herr),
			logger.Errors(derr, herr))
		return errors.Join(derr, fmt.Errorf("error handler: %w", herr))
	}

	m.logger.ErrorContext(ctx, "subscriber failed",
		logger.Message(message),
		logger.Token(b.token.ID()),
		logger.PayloadType(payload),
		panicAttr(err),
		logger.Error(err))
	return derr
}

// panicError carries a value recovered from a subscriber or error handler.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// safeInvoke runs fn, converting a panic into a *panicError.
func safeInvoke(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return fn()
}

// panicAttr logs the recovered value when err came from a panic.
func panicAttr(err error) slog.Attr {
	var perr *panicError
	if errors.As(err, &perr) {
		return logger.Panic(perr.value)
	}
	return slog.Attr{}
}
