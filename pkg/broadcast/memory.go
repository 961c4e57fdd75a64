package broadcast

import (
	"context"
	"sync"
)

const defaultBufferSize = 64

var _ Broadcaster[struct{}] = (*MemoryBroadcaster[struct{}])(nil)

// MemoryBroadcaster is an in-process Broadcaster.
// A subscriber whose buffer is full misses the message instead of blocking the sender.
type MemoryBroadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[*memorySubscriber[T]]struct{}
	bufferSize  int
	closed      bool
}

// NewMemoryBroadcaster creates a broadcaster with bufferSize slots per subscriber.
// Non-positive sizes fall back to the default of 64.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &MemoryBroadcaster[T]{
		subscribers: make(map[*memorySubscriber[T]]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new subscriber. It is removed when ctx is done or Close is called.
// Subscribing to a closed broadcaster returns a subscriber with a closed channel.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := &memorySubscriber[T]{
		ch:     make(chan Message[T], b.bufferSize),
		done:   make(chan struct{}),
		parent: b,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.closeChannel()
		return sub
	}
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			b.remove(sub)
		case <-sub.done:
		}
	}()

	return sub
}

// Broadcast delivers msg to every subscriber with free buffer space.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBroadcasterClosed
	}

	for sub := range b.subscribers {
		select {
		case sub.ch <- msg:
		default:
		}
	}
	return nil
}

// Len returns the number of active subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber channel. Later broadcasts return ErrBroadcasterClosed.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for sub := range b.subscribers {
		sub.stop()
		sub.closeChannel()
	}
	clear(b.subscribers)
	return nil
}

func (b *MemoryBroadcaster[T]) remove(sub *memorySubscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	sub.closeChannel()
}

type memorySubscriber[T any] struct {
	ch     chan Message[T]
	done   chan struct{}
	parent *MemoryBroadcaster[T]

	chOnce   sync.Once
	doneOnce sync.Once
}

// Receive returns the buffered channel. ctx is unused; see Subscribe.
func (s *memorySubscriber[T]) Receive(_ context.Context) <-chan Message[T] {
	return s.ch
}

func (s *memorySubscriber[T]) Close() error {
	s.stop()
	s.parent.remove(s)
	return nil
}

// stop releases the goroutine watching the subscription context.
func (s *memorySubscriber[T]) stop() {
	s.doneOnce.Do(func() { close(s.done) })
}

// closeChannel must be called with the parent lock held or before registration.
func (s *memorySubscriber[T]) closeChannel() {
	s.chOnce.Do(func() { close(s.ch) })
}
