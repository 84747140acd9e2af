// Package scheduler runs callbacks at absolute instants, keyed by entity id.
package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Scheduler registers callbacks for absolute instants.
// At most one callback is pending per id; scheduling an id again replaces the
// previous callback.
type Scheduler interface {
	// Schedule runs fn at the given instant. Instants in the past fire as soon as possible.
	Schedule(id string, at time.Time, fn func())

	// Cancel removes the pending callback for id and reports whether one existed.
	Cancel(id string) bool

	// Pending reports whether a callback is registered for id.
	Pending(id string) bool
}

type timerEntry struct {
	timer      *time.Timer
	generation uint64
}

// TimerScheduler implements Scheduler with time.AfterFunc timers.
type TimerScheduler struct {
	mu         sync.Mutex
	clock      Clock
	timers     map[string]timerEntry
	generation uint64
}

// NewTimerScheduler creates a TimerScheduler.
func NewTimerScheduler(clock Clock) *TimerScheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TimerScheduler{
		clock:  clock,
		timers: make(map[string]timerEntry),
	}
}

// Schedule runs fn at the given instant, replacing any pending callback for id.
func (s *TimerScheduler) Schedule(id string, at time.Time, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[id]; ok {
		existing.timer.Stop()
	}

	s.generation++
	generation := s.generation
	delay := max(at.Sub(s.clock.Now()), 0)

	timer := time.AfterFunc(delay, func() {
		s.mu.Lock()
		current, ok := s.timers[id]
		// A replaced timer may still fire if Stop lost the race.
		if !ok || current.generation != generation {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.mu.Unlock()

		fn()
	})
	s.timers[id] = timerEntry{timer: timer, generation: generation}

	slog.Debug("scheduled timer", "id", id, "delay", delay)
}

// Cancel stops the pending callback for id.
func (s *TimerScheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.timers[id]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(s.timers, id)
	return true
}

// Pending reports whether a callback is registered for id.
func (s *TimerScheduler) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.timers[id]
	return ok
}

// Stop cancels every pending callback.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, id)
	}
}

// Compile-time interface check.
var _ Scheduler = (*TimerScheduler)(nil)
