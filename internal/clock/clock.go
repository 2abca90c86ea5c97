package clock

import (
	"sync"
	"time"
)

// Clock supplies wall time to services that stamp records.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the process wall clock.
func System() Clock { return systemClock{} }

// Stamp returns the epoch-millisecond timestamp for a write that follows a
// record last stamped at prev. The result is always strictly greater than prev
// so two writes within the same millisecond still order correctly.
func Stamp(c Clock, prev int64) int64 {
	now := c.Now().UnixMilli()
	if now <= prev {
		return prev + 1
	}
	return now
}

// Fake is a manually advanced clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake creates a fake clock frozen at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
