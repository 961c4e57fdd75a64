package broadcast

import "context"

// Message wraps a broadcast value.
type Message[T any] struct {
	Data T
}

// Broadcaster sends messages to multiple subscribers.
type Broadcaster[T any] interface {
	// Broadcast delivers msg to every current subscriber without blocking.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Subscribe registers a subscriber that lives until ctx is done or it is closed.
	Subscribe(ctx context.Context) Subscriber[T]

	// Close closes the broadcaster and all of its subscribers.
	Close() error
}

// Subscriber receives broadcast messages.
type Subscriber[T any] interface {
	// Receive returns the channel messages are delivered on.
	// The channel is closed when the subscriber or the broadcaster is closed.
	// The subscription lifetime is bound to the ctx given to Subscribe; ctx here
	// is for implementations that fetch lazily, and MemoryBroadcaster ignores it.
	Receive(ctx context.Context) <-chan Message[T]

	// Close unsubscribes. It is safe to call more than once.
	Close() error
}
