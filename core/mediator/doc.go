// Package mediator provides an in-process publish/subscribe mediator. Components
// register interest in named or typed messages, and other components broadcast
// messages that are dispatched synchronously to every live registrant. Neither side
// holds a reference to the other.
//
// # Core Components
//
// Mediator is the façade. It owns a subscriber registry and a replay cache, and is
// the only type collaborators interact with. Create as many as needed with New; the
// package keeps no global instance.
//
// Token identifies one registration or one cached broadcast. Tokens for the same
// message are distinct; compare them with ==.
//
// Subscribers are tracked weakly. Every registration names an owner, and the mediator
// keeps only a weak pointer to it. Once the owner becomes unreachable its
// subscriptions stop receiving messages and are purged on the next access, so
// registering never extends a subscriber's lifetime.
//
// # Basic Usage
//
//	type OrderPlaced struct {
//		ID int
//	}
//
//	type OrdersView struct {
//		orders []int
//	}
//
//	func (v *OrdersView) OnOrder(ctx context.Context, evt OrderPlaced) error {
//		v.orders = append(v.orders, evt.ID)
//		return nil
//	}
//
//	m := mediator.New(mediator.WithLogger(logger))
//	defer m.Close()
//
//	view := &OrdersView{}
//	token, err := mediator.RegisterType(ctx, m, view, (*OrdersView).OnOrder)
//	if err != nil {
//		return err
//	}
//	defer m.Unregister(token)
//
//	// Message name derived from the payload type
//	_, err = mediator.Publish(ctx, m, OrderPlaced{ID: 42})
//
// Callbacks receive their owner as an argument. Do not capture the owner in a
// closure: the registry holds callbacks strongly, so a captured owner would never
// be collected.
//
// # Named Messages and Signals
//
//	mediator.Register(ctx, m, "orders", view, (*OrdersView).OnOrder)
//	mediator.RegisterSignal(ctx, m, "refresh", view, (*OrdersView).Refresh)
//
//	m.Broadcast(ctx, "orders", OrderPlaced{ID: 1})
//	m.Signal(ctx, "refresh")
//
// A parameterless subscriber receives every broadcast of its message, with or
// without payload. A broadcast without payload reaches only parameterless
// subscribers.
//
// # Payload Matching
//
// A typed subscriber declared for T receives a payload when the payload can be
// asserted to T. For a concrete T that means the same type; for an interface T any
// implementation qualifies, which gives covariant delivery:
//
//	type Event interface{ EventName() string }
//
//	mediator.Register(ctx, m, "events", audit, (*Audit).OnEvent)  // T = Event
//	mediator.Register(ctx, m, "events", view, (*OrdersView).OnOrder) // T = OrderPlaced
//
//	m.Broadcast(ctx, "events", OrderPlaced{ID: 1})    // both
//	m.Broadcast(ctx, "events", OrderCancelled{ID: 1}) // audit only
//
// # Replay Cache
//
// A broadcast can be kept for subscribers that register later:
//
//	token, _ := m.Broadcast(ctx, "config.loaded", cfg, mediator.WithCache(mediator.CacheOptions{
//		TTL:        time.Minute,
//		MaxResends: 3,
//	}))
//
// A cached entry is replayed to each new matching subscriber during registration
// until it expires or has been replayed MaxResends times, whichever comes first.
// Use ExcludeCached to opt out for one registration and RemoveFromCache to drop an
// entry early. Zero cache options fall back to the mediator defaults (see Config).
//
// # Error Handling
//
// Invalid calls return errors wrapping ErrInvalidArgument (zero token, empty
// message name) or ErrInvalidOperation (nil owner). Lookups that find nothing are
// not errors.
//
// Subscriber errors and panics become *DispatchError values. With WithErrorHandler
// the fault is passed to the handler and absorbed:
//
//	mediator.Register(ctx, m, "orders", view, (*OrdersView).OnOrder,
//		mediator.WithErrorHandler(view, (*OrdersView).OnError))
//
// Without a live handler, the fault is logged and returned from Broadcast (joined
// with any others) after every subscriber has run. Faults during replay are
// returned from the registration call the same way. A recovered panic is logged
// with its original value under the "panic" key.
//
// # Dispatch Context
//
// The context passed to a callback carries the message name and the token of
// the subscription being invoked:
//
//	func (v *OrdersView) OnOrder(ctx context.Context, o OrderPlaced) error {
//		log.InfoContext(ctx, "order", "message", mediator.MessageFromContext(ctx))
//		return nil
//	}
//
// # Observing Broadcasts
//
// Observe returns a subscriber that receives an Observation for every broadcast.
// It is meant for logging and diagnostics; delivery never depends on it.
//
//	obs := m.Observe(ctx)
//	go func() {
//		for msg := range obs.Receive(ctx) {
//			logger.Debug("broadcast", "message", msg.Data.Message, "delivered", msg.Data.Delivered)
//		}
//	}()
//
// # Concurrency
//
// All operations run on the caller's goroutine. The registry and the cache each have
// their own lock, and callbacks run with no lock held, so a callback may register,
// unregister or broadcast. The set of subscribers for one broadcast is fixed when
// the broadcast starts.
package mediator
