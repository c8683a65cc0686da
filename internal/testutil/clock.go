// Package testutil holds deterministic helpers shared by tests.
package testutil

import (
	"sync"
	"time"
)

// FrozenClock hands out timestamps from a fixed base, advancing by a
// fixed step per call, so recorded history rows order deterministically.
//
// Thread-safe: all methods take an internal mutex.
type FrozenClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewFrozenClock creates a clock starting at base and advancing by step
// on each Now call.
func NewFrozenClock(base time.Time, step time.Duration) *FrozenClock {
	return &FrozenClock{next: base, step: step}
}

// Now returns the current timestamp and advances the clock.
func (c *FrozenClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}
