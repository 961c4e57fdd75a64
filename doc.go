// Package courier is an in-process message mediator. Components publish named
// messages and subscribe to them without knowing about each other, while the
// mediator holds subscribers only weakly so a forgotten subscription never keeps
// its owner alive.
//
// The implementation lives in core/mediator. This package adds a shared
// instance configured from the environment:
//
//	type Dashboard struct{ orders int }
//
//	func (d *Dashboard) OnOrder(ctx context.Context, o OrderPlaced) error {
//		d.orders++
//		return nil
//	}
//
//	d := &Dashboard{}
//	token, err := mediator.Register(ctx, courier.Default(), "orders", d, (*Dashboard).OnOrder)
//	if err != nil {
//		return err
//	}
//	defer courier.Default().Unregister(token)
//
//	_, err = courier.Default().Broadcast(ctx, "orders", OrderPlaced{ID: 42})
//
// Use New for mediators with their own scope, for example one per test:
//
//	m := courier.New(mediator.WithLogger(log))
//	defer m.Close()
//
// # Configuration
//
// New and Default read these variables, with a .env file loaded when present:
//
//	MEDIATOR_CACHE_TTL          default lifetime of cached broadcasts (5m)
//	MEDIATOR_CACHE_MAX_RESENDS  default replay budget of cached broadcasts (1)
//	MEDIATOR_OBSERVER_BUFFER    per-observer notification buffer (64)
//	MEDIATOR_ENV                logger preset: development, staging or production
//	MEDIATOR_LOG_LEVEL          debug, info, warn or error, overriding the preset
//	MEDIATOR_LOG_FORMAT         text or json, overriding the preset
//
// Logs go to stderr. Pass mediator.WithLogger to New to replace that logger.
package courier
