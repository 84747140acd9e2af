package domain

import (
	"testing"
	"time"
)

func TestNewLatency(t *testing.T) {
	requested := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l := NewLatency(40*time.Millisecond, requested, requested.Add(120*time.Millisecond))
	if l.Roundtrip != 120*time.Millisecond {
		t.Errorf("expected round trip %v, got %v", 120*time.Millisecond, l.Roundtrip)
	}
	if l.Gateway != 40*time.Millisecond {
		t.Errorf("expected gateway %v, got %v", 40*time.Millisecond, l.Gateway)
	}
}

func TestNewLatency_ClampsSkew(t *testing.T) {
	requested := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l := NewLatency(0, requested, requested.Add(-time.Second))
	if l.Roundtrip != 0 {
		t.Errorf("expected round trip 0, got %v", l.Roundtrip)
	}
}

func TestLatency_Message(t *testing.T) {
	tests := []struct {
		name    string
		latency Latency
		want    string
	}{
		{
			name:    "known gateway",
			latency: Latency{Gateway: 42 * time.Millisecond, Roundtrip: 100 * time.Millisecond},
			want:    "Pong! 🏓 Gateway: 42ms, round trip: 100ms",
		},
		{
			name:    "unknown gateway",
			latency: Latency{Roundtrip: 7 * time.Millisecond},
			want:    "Pong! 🏓 Gateway: n/a, round trip: 7ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.latency.Message(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
