package application

import (
	"testing"
	"time"

	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

func TestPingInteractor_Execute(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	interactor := NewPingInteractor(scheduler.NewFakeClock(now))

	result := interactor.Execute(30*time.Millisecond, now.Add(-250*time.Millisecond))

	if result.Roundtrip != 250*time.Millisecond {
		t.Errorf("expected round trip %v, got %v", 250*time.Millisecond, result.Roundtrip)
	}
	if result.Gateway != 30*time.Millisecond {
		t.Errorf("expected gateway %v, got %v", 30*time.Millisecond, result.Gateway)
	}
}

func TestPingInteractor_DefaultsToSystemClock(t *testing.T) {
	interactor := NewPingInteractor(nil)

	result := interactor.Execute(0, time.Now().Add(-time.Second))
	if result.Roundtrip < time.Second {
		t.Errorf("expected round trip of at least 1s, got %v", result.Roundtrip)
	}
}
