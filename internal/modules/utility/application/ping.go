package application

import (
	"time"

	"github.com/sglre6355/giveawaybot/internal/modules/utility/domain"
	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

// PingInteractor handles the ping use case.
type PingInteractor struct {
	clock scheduler.Clock
}

// NewPingInteractor creates a new PingInteractor.
func NewPingInteractor(clock scheduler.Clock) *PingInteractor {
	if clock == nil {
		clock = scheduler.SystemClock{}
	}
	return &PingInteractor{clock: clock}
}

// Execute measures the latency of a request created at requested.
func (p *PingInteractor) Execute(gateway time.Duration, requested time.Time) domain.Latency {
	return domain.NewLatency(gateway, requested, p.clock.Now())
}
