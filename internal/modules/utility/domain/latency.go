package domain

import (
	"fmt"
	"time"
)

// Latency is the result of a ping.
type Latency struct {
	// Gateway is the last heartbeat round trip. Zero when unknown.
	Gateway time.Duration

	// Roundtrip is the time between the request being created and handled.
	Roundtrip time.Duration
}

// NewLatency creates a Latency from the request creation time. Clock skew can
// make the round trip negative; it is clamped to zero.
func NewLatency(gateway time.Duration, requested, now time.Time) Latency {
	return Latency{
		Gateway:   gateway,
		Roundtrip: max(now.Sub(requested), 0),
	}
}

// Message renders the latency for the user.
func (l Latency) Message() string {
	gateway := "n/a"
	if l.Gateway > 0 {
		gateway = fmt.Sprintf("%dms", l.Gateway.Milliseconds())
	}
	return fmt.Sprintf("Pong! 🏓 Gateway: %s, round trip: %dms", gateway, l.Roundtrip.Milliseconds())
}
