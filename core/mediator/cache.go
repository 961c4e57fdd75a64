package mediator

import (
	"slices"
	"sync"
	"time"
)

// cacheEntry is a broadcast kept for replay to late subscribers.
type cacheEntry struct {
	token      Token
	message    string
	payload    any
	expiresAt  time.Time
	maxResends int
	resends    int
}

// expired reports whether the entry crossed its deadline or its resend budget.
func (e *cacheEntry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt) || e.resends >= e.maxResends
}

// cache holds entries in insertion order, which is also the replay order.
type cache struct {
	mu      sync.Mutex
	entries []*cacheEntry
}

func newCache() *cache {
	return &cache{}
}

func (c *cache) store(message string, payload any, expiresAt time.Time, maxResends int) Token {
	entry := &cacheEntry{
		token:      newToken(message),
		message:    message,
		payload:    payload,
		expiresAt:  expiresAt,
		maxResends: maxResends,
	}

	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()

	return entry.token
}

func (c *cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(now)
}

func (c *cache) sweepLocked(now time.Time) {
	c.entries = slices.DeleteFunc(c.entries, func(e *cacheEntry) bool {
		return e.expired(now)
	})
}

// replay picks the payloads to deliver to a new subscriber and charges
// each picked entry one resend. Delivery itself happens outside the lock.
func (c *cache) replay(now time.Time, message string, accepts func(any) bool) []any {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked(now)

	var payloads []any
	for _, e := range c.entries {
		if e.message != message || !accepts(e.payload) {
			continue
		}
		e.resends++
		payloads = append(payloads, e.payload)
	}
	return payloads
}

func (c *cache) isCached(now time.Time, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked(now)
	return slices.ContainsFunc(c.entries, func(e *cacheEntry) bool {
		return e.message == message
	})
}

// removeByToken drops the entry regardless of its policy.
// It reports whether no entry for token remains, so removing an absent
// entry succeeds. Only the zero token fails.
func (c *cache) removeByToken(token Token) bool {
	if token.IsZero() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = slices.DeleteFunc(c.entries, func(e *cacheEntry) bool {
		return e.token == token
	})
	return !slices.ContainsFunc(c.entries, func(e *cacheEntry) bool {
		return e.token == token
	})
}

func (c *cache) len(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked(now)
	return len(c.entries)
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}
