package mediator

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// registry maps tokens to subscriber records.
// Records are dropped lazily once their owner has been collected.
type registry struct {
	mu   sync.Mutex
	subs map[Token]*subscriber
	seq  uint64
}

func newRegistry() *registry {
	return &registry{subs: make(map[Token]*subscriber)}
}

// add inserts or replaces the record for token.
func (r *registry) add(token Token, s *subscriber) error {
	if token.IsZero() {
		return fmt.Errorf("%w: token is required", ErrInvalidArgument)
	}
	if s == nil || s.bind == nil {
		return fmt.Errorf("%w: callback is required", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	s.token = token
	s.seq = r.seq
	r.subs[token] = s
	return nil
}

func (r *registry) remove(token Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, token)
}

// resolve returns a snapshot of live subscribers for message, in registration order.
// Records whose owner is gone are removed on the way.
func (r *registry) resolve(message string) []binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	type ordered struct {
		seq uint64
		b   binding
	}

	var found []ordered
	for token, s := range r.subs {
		if token.message != message {
			continue
		}
		b, ok := s.resolve()
		if !ok {
			delete(r.subs, token)
			continue
		}
		found = append(found, ordered{seq: s.seq, b: b})
	}

	slices.SortFunc(found, func(a, b ordered) int {
		return cmp.Compare(a.seq, b.seq)
	})

	bindings := make([]binding, 0, len(found))
	for _, f := range found {
		bindings = append(bindings, f.b)
	}
	return bindings
}

// isRegistered reports whether token maps to a record whose owner is still alive.
func (r *registry) isRegistered(token Token) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.subs[token]
	if !ok {
		return false
	}
	if !s.alive() {
		delete(r.subs, token)
		return false
	}
	return true
}

// len counts live records, purging dead ones.
func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, s := range r.subs {
		if !s.alive() {
			delete(r.subs, token)
		}
	}
	return len(r.subs)
}

func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.subs)
}
