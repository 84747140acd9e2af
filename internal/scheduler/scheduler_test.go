package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerScheduler_FiresCallback(t *testing.T) {
	s := NewTimerScheduler(nil)
	done := make(chan struct{})

	s.Schedule("a", time.Now().Add(10*time.Millisecond), func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected callback to fire")
	}
	assert.False(t, s.Pending("a"))
}

func TestTimerScheduler_PastInstantFiresImmediately(t *testing.T) {
	s := NewTimerScheduler(nil)
	done := make(chan struct{})

	s.Schedule("a", time.Now().Add(-time.Hour), func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected overdue callback to fire")
	}
}

func TestTimerScheduler_CancelPreventsCallback(t *testing.T) {
	s := NewTimerScheduler(nil)
	var fired atomic.Bool

	s.Schedule("a", time.Now().Add(20*time.Millisecond), func() { fired.Store(true) })
	require.True(t, s.Cancel("a"))
	assert.False(t, s.Cancel("a"))

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestTimerScheduler_RescheduleReplacesCallback(t *testing.T) {
	s := NewTimerScheduler(nil)
	var first, second atomic.Int32
	done := make(chan struct{})

	s.Schedule("a", time.Now().Add(20*time.Millisecond), func() { first.Add(1) })
	s.Schedule("a", time.Now().Add(5*time.Millisecond), func() {
		second.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected replacement callback to fire")
	}
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestFake_AdvanceRunsDueCallbacksInOrder(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	f := NewFake(clock)

	var order []string
	f.Schedule("late", start.Add(2*time.Minute), func() { order = append(order, "late") })
	f.Schedule("early", start.Add(time.Minute), func() { order = append(order, "early") })
	f.Schedule("never", start.Add(time.Hour), func() { order = append(order, "never") })

	ran := f.Advance(5 * time.Minute)

	assert.Equal(t, 2, ran)
	assert.Equal(t, []string{"early", "late"}, order)
	assert.True(t, f.Pending("never"))
	assert.Equal(t, start.Add(5*time.Minute), clock.Now())
}

func TestFake_CancelAndReplace(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(NewFakeClock(start))
	calls := 0

	f.Schedule("a", start.Add(time.Minute), func() { calls++ })
	f.Schedule("a", start.Add(2*time.Minute), func() { calls += 10 })

	at, ok := f.At("a")
	require.True(t, ok)
	assert.Equal(t, start.Add(2*time.Minute), at)

	assert.True(t, f.Cancel("a"))
	f.Advance(time.Hour)
	assert.Equal(t, 0, calls)
}
