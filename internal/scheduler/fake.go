package scheduler

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock for tests.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a FakeClock set to now.
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Add moves the clock forward by d.
func (c *FakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeEntry struct {
	at time.Time
	fn func()
}

// Fake is a Scheduler driven by a FakeClock. Callbacks only run from Advance.
type Fake struct {
	mu      sync.Mutex
	clock   *FakeClock
	entries map[string]fakeEntry
}

// NewFake creates a Fake scheduler on the given clock.
func NewFake(clock *FakeClock) *Fake {
	return &Fake{
		clock:   clock,
		entries: make(map[string]fakeEntry),
	}
}

// Schedule registers fn for the instant at, replacing any pending callback for id.
func (f *Fake) Schedule(id string, at time.Time, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[id] = fakeEntry{at: at, fn: fn}
}

// Cancel removes the pending callback for id.
func (f *Fake) Cancel(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.entries[id]
	delete(f.entries, id)
	return ok
}

// Pending reports whether a callback is registered for id.
func (f *Fake) Pending(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.entries[id]
	return ok
}

// At returns the instant the callback for id is due.
func (f *Fake) At(id string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[id]
	return entry.at, ok
}

// Advance moves the clock forward by d and runs every callback that became due,
// in due order. Returns the number of callbacks run.
func (f *Fake) Advance(d time.Duration) int {
	f.clock.Add(d)
	now := f.clock.Now()

	f.mu.Lock()
	type due struct {
		id string
		fakeEntry
	}
	var ready []due
	for id, entry := range f.entries {
		if !entry.at.After(now) {
			ready = append(ready, due{id: id, fakeEntry: entry})
			delete(f.entries, id)
		}
	}
	f.mu.Unlock()

	sort.Slice(ready, func(i, j int) bool {
		if ready[i].at.Equal(ready[j].at) {
			return ready[i].id < ready[j].id
		}
		return ready[i].at.Before(ready[j].at)
	})
	for _, entry := range ready {
		entry.fn()
	}
	return len(ready)
}

// Compile-time interface checks.
var (
	_ Clock     = (*FakeClock)(nil)
	_ Scheduler = (*Fake)(nil)
)
