package mediator

import (
	"context"
	"fmt"
	"reflect"
	"weak"
)

// invoker calls a live subscriber with a type-erased payload.
type invoker func(ctx context.Context, payload any) error

// errorSink calls a live error handler.
type errorSink func(ctx context.Context, err *DispatchError)

// subscriber is the registry record. It never holds its owners strongly:
// bind and bindErr materialize a callable only while the owner is reachable.
type subscriber struct {
	token Token
	seq   uint64

	// payload is the declared payload type, nil for parameterless callbacks.
	payload reflect.Type
	accepts func(payload any) bool
	alive   func() bool
	bind    func() (invoker, bool)
	bindErr func() (errorSink, bool)
}

// binding is a subscriber resolved for one dispatch.
// The invoker keeps the owner alive until the dispatch finishes.
type binding struct {
	token   Token
	accepts func(payload any) bool
	invoke  invoker
	bindErr func() (errorSink, bool)
}

// newTypedSubscriber builds a record for a callback that takes a payload of type T.
// A payload is accepted when it can be asserted to T: either the same concrete
// type, or any type implementing T when T is an interface.
func newTypedSubscriber[O, T any](owner *O, fn func(*O, context.Context, T) error) *subscriber {
	ref := weak.Make(owner)
	return &subscriber{
		payload: reflect.TypeFor[T](),
		accepts: func(payload any) bool {
			_, ok := payload.(T)
			return ok
		},
		alive: func() bool { return ref.Value() != nil },
		bind: func() (invoker, bool) {
			o := ref.Value()
			if o == nil {
				return nil, false
			}
			return func(ctx context.Context, payload any) error {
				v, ok := payload.(T)
				if !ok {
					return fmt.Errorf("unexpected payload type %T, want %s", payload, reflect.TypeFor[T]())
				}
				return fn(o, ctx, v)
			}, true
		},
	}
}

// newSignalSubscriber builds a record for a parameterless callback.
// It accepts any payload, including none.
func newSignalSubscriber[O any](owner *O, fn func(*O, context.Context) error) *subscriber {
	ref := weak.Make(owner)
	return &subscriber{
		accepts: func(any) bool { return true },
		alive:   func() bool { return ref.Value() != nil },
		bind: func() (invoker, bool) {
			o := ref.Value()
			if o == nil {
				return nil, false
			}
			return func(ctx context.Context, _ any) error {
				return fn(o, ctx)
			}, true
		},
	}
}

func newErrorBinder[E any](owner *E, fn func(*E, context.Context, error)) func() (errorSink, bool) {
	ref := weak.Make(owner)
	return func() (errorSink, bool) {
		o := ref.Value()
		if o == nil {
			return nil, false
		}
		return func(ctx context.Context, err *DispatchError) {
			fn(o, ctx, err)
		}, true
	}
}

func (s *subscriber) payloadName() string {
	if s.payload == nil {
		return "none"
	}
	return s.payload.String()
}

func (s *subscriber) resolve() (binding, bool) {
	inv, ok := s.bind()
	if !ok {
		return binding{}, false
	}
	return binding{
		token:   s.token,
		accepts: s.accepts,
		invoke:  inv,
		bindErr: s.bindErr,
	}, true
}

// errorHandler returns the live error handler of b, if any.
func (b binding) errorHandler() (errorSink, bool) {
	if b.bindErr == nil {
		return nil, false
	}
	return b.bindErr()
}
