package mediator_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RenFontes/Courier/core/mediator"
)

// Test message types
type (
	Event interface {
		EventName() string
	}

	OrderPlaced struct {
		ID int
	}

	OrderCancelled struct {
		ID int
	}
)

func (OrderPlaced) EventName() string    { return "order.placed" }
func (OrderCancelled) EventName() string { return "order.cancelled" }

var errBoom = errors.New("boom")

// listener records everything it receives.
type listener struct {
	name string

	mu      sync.Mutex
	ints    []int
	orders  []OrderPlaced
	events  []Event
	signals int
	faults  []error
}

func (l *listener) OnInt(ctx context.Context, v int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ints = append(l.ints, v)
	return nil
}

func (l *listener) OnOrder(ctx context.Context, evt OrderPlaced) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders = append(l.orders, evt)
	return nil
}

func (l *listener) OnEvent(ctx context.Context, evt Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
	return nil
}

func (l *listener) OnSignal(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.signals++
	return nil
}

func (l *listener) OnError(ctx context.Context, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.faults = append(l.faults, err)
}

func (l *listener) Fail(ctx context.Context, v int) error {
	return errBoom
}

func (l *listener) Panic(ctx context.Context, v int) error {
	panic("kaboom")
}

func (l *listener) Ints() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.ints)
}

func (l *listener) Orders() []OrderPlaced {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.orders)
}

func (l *listener) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

func (l *listener) Signals() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.signals
}

func (l *listener) Faults() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.faults)
}

// counter is used for owners that are dropped during a test.
// It holds a pointer so it is never placed in the tiny allocator.
type counter struct {
	hits *atomic.Int32
}

func (c *counter) OnSignal(ctx context.Context) error {
	c.hits.Add(1)
	return nil
}

func (c *counter) OnError(ctx context.Context, err error) {
	c.hits.Add(1)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newMediator(t *testing.T, opts ...mediator.Option) *mediator.Mediator {
	t.Helper()
	m := mediator.New(opts...)
	t.Cleanup(func() { _ = m.Close() })
	return m
}
