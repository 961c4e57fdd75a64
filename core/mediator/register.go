package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/RenFontes/Courier/core/logger"
)

// Register subscribes fn to message. fn receives broadcasts whose payload can be
// asserted to T: the same type, or any implementation when T is an interface.
//
// The mediator keeps only a weak reference to owner. Once owner is unreachable the
// subscription stops receiving messages and disappears, so fn must reach its state
// through the owner argument rather than capture it. Method expressions fit well:
//
//	token, err := mediator.Register(ctx, m, "orders", view, (*OrdersView).OnOrder)
//
// Unless ExcludeCached is given, matching cached broadcasts are replayed to fn
// before Register returns. A replay fault that no error handler absorbs is
// returned together with a valid token; the subscription stays in place.
func Register[O, T any](ctx context.Context, m *Mediator, message string, owner *O, fn func(owner *O, ctx context.Context, payload T) error, opts ...RegisterOption) (Token, error) {
	if owner == nil {
		return Token{}, fmt.Errorf("%w: callback has no owner", ErrInvalidOperation)
	}
	if fn == nil {
		return Token{}, fmt.Errorf("%w: callback is required", ErrInvalidArgument)
	}
	return m.register(ctx, message, newTypedSubscriber(owner, fn), opts)
}

// RegisterType is Register with the message name derived from T. See MessageName.
func RegisterType[O, T any](ctx context.Context, m *Mediator, owner *O, fn func(owner *O, ctx context.Context, payload T) error, opts ...RegisterOption) (Token, error) {
	return Register(ctx, m, MessageName[T](), owner, fn, opts...)
}

// RegisterSignal subscribes a parameterless fn to message. It is invoked for every
// broadcast of message, whatever the payload.
func RegisterSignal[O any](ctx context.Context, m *Mediator, message string, owner *O, fn func(owner *O, ctx context.Context) error, opts ...RegisterOption) (Token, error) {
	if owner == nil {
		return Token{}, fmt.Errorf("%w: callback has no owner", ErrInvalidOperation)
	}
	if fn == nil {
		return Token{}, fmt.Errorf("%w: callback is required", ErrInvalidArgument)
	}
	return m.register(ctx, message, newSignalSubscriber(owner, fn), opts)
}

// MessageName returns the message name used for T by RegisterType and Publish:
// the package path and type name, with pointer indirections removed. *Order and
// Order therefore share a name, while the payload type still decides delivery.
func MessageName[T any]() string {
	return typeName(reflect.TypeFor[T]())
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

func (m *Mediator) register(ctx context.Context, message string, s *subscriber, opts []RegisterOption) (Token, error) {
	if m.closed.Load() {
		return Token{}, ErrClosed
	}
	if message == "" {
		return Token{}, fmt.Errorf("%w: message name is required", ErrInvalidArgument)
	}

	var cfg registerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	s.bindErr = cfg.bindErr

	token := newToken(message)
	s.token = token

	var replayErr error
	if !cfg.excludeCached {
		replayErr = m.replay(ctx, message, s)
	}

	if err := m.subscribers.add(token, s); err != nil {
		return Token{}, err
	}

	m.logger.DebugContext(ctx, "subscriber registered",
		logger.Message(message),
		logger.Token(token.ID()),
		logger.Key("payload", s.payloadName()))

	return token, replayErr
}

// replay delivers cached broadcasts of message to a subscriber that is not yet
// in the registry. The cache is swept before selection and again afterwards.
func (m *Mediator) replay(ctx context.Context, message string, s *subscriber) error {
	defer func() { m.cache.sweep(m.now()) }()

	// Bind first so a collected owner never spends an entry's resend budget.
	b, ok := s.resolve()
	if !ok {
		return nil
	}

	payloads := m.cache.replay(m.now(), message, s.accepts)
	if len(payloads) == 0 {
		return nil
	}

	var errs []error
	for _, payload := range payloads {
		if err := m.deliver(ctx, message, b, payload); err != nil {
			errs = append(errs, err)
		}
	}

	m.logger.DebugContext(ctx, "cached messages replayed",
		logger.Message(message),
		logger.Token(s.token.ID()),
		logger.Count("replayed", len(payloads)))

	return errors.Join(errs...)
}
