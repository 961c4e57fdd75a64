package mediator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RenFontes/Courier/core/logger"
)

// Broadcast delivers payload to every live subscriber of message that accepts it.
// A nil payload reaches only parameterless subscribers. Delivery is synchronous
// and each eligible subscriber runs exactly once, in registration order.
//
// A subscriber fault (error or panic) goes to its error handler when one is live.
// Unhandled faults do not stop delivery to the others; they are joined and
// returned once every subscriber has run.
//
// With WithCache the broadcast is also kept for replay and its cache token is
// returned, even when faults are reported. Otherwise the token is zero.
func (m *Mediator) Broadcast(ctx context.Context, message string, payload any, opts ...BroadcastOption) (Token, error) {
	if m.closed.Load() {
		return Token{}, ErrClosed
	}
	if message == "" {
		return Token{}, fmt.Errorf("%w: message name is required", ErrInvalidArgument)
	}

	var cfg broadcastConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		start     = time.Now()
		errs      []error
		delivered int
	)
	for _, b := range m.subscribers.resolve(message) {
		if !b.accepts(payload) {
			continue
		}
		delivered++
		if err := m.deliver(ctx, message, b, payload); err != nil {
			errs = append(errs, err)
		}
	}

	m.broadcasts.Add(1)
	m.observe(ctx, message, payload, delivered)

	var token Token
	if cfg.cache != nil {
		expiresAt, maxResends := m.cachePolicy(*cfg.cache)
		token = m.cache.store(message, payload, expiresAt, maxResends)
		m.logger.DebugContext(ctx, "broadcast cached",
			logger.Message(message),
			logger.Token(token.ID()),
			logger.ExpiresAt(expiresAt),
			logger.Duration(expiresAt.Sub(m.now())),
			logger.Count("max_resends", maxResends))
	}

	if len(errs) > 0 {
		m.logger.WarnContext(ctx, "broadcast completed with faults",
			logger.Message(message),
			logger.Count("delivered", delivered),
			logger.Errors(errs...),
			logger.Elapsed(start))
	} else {
		m.logger.DebugContext(ctx, "message broadcast",
			logger.Message(message),
			logger.PayloadType(payload),
			logger.Count("delivered", delivered),
			logger.Elapsed(start))
	}

	return token, errors.Join(errs...)
}

// Signal broadcasts message without a payload.
func (m *Mediator) Signal(ctx context.Context, message string, opts ...BroadcastOption) (Token, error) {
	return m.Broadcast(ctx, message, nil, opts...)
}

// Publish broadcasts payload under the message name derived from T.
//
// Example:
//
//	_, err := mediator.Publish(ctx, m, OrderPlaced{ID: 42})
func Publish[T any](ctx context.Context, m *Mediator, payload T, opts ...BroadcastOption) (Token, error) {
	return m.Broadcast(ctx, MessageName[T](), payload, opts...)
}

func (m *Mediator) cachePolicy(opts CacheOptions) (time.Time, int) {
	expiresAt := opts.ExpiresAt
	if expiresAt.IsZero() {
		// A negative TTL is a deadline already in the past.
		ttl := opts.TTL
		if ttl == 0 {
			ttl = m.defaultTTL
		}
		expiresAt = m.now().Add(ttl)
	}

	maxResends := opts.MaxResends
	if maxResends <= 0 {
		maxResends = m.defaultMaxResends
	}
	return expiresAt, maxResends
}
