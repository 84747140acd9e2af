package usecases

import (
	"fmt"
	"strings"
	"time"

	"github.com/sho0pi/naturaltime"
	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

// DurationParser turns user input such as "1d12h" or "in 2 hours" into a duration.
type DurationParser struct {
	natural *naturaltime.Parser
	clock   scheduler.Clock
}

// NewDurationParser creates a DurationParser. natural may be nil, in which case
// only compact duration strings are accepted.
func NewDurationParser(natural *naturaltime.Parser, clock scheduler.Clock) *DurationParser {
	return &DurationParser{natural: natural, clock: clock}
}

// Parse parses input. Compact forms ("90m", "1d12h", "2w") are tried first,
// then natural language relative to now.
func (p *DurationParser) Parse(input string) (time.Duration, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDuration)
	}

	if d, err := str2duration.ParseDuration(strings.ReplaceAll(strings.ToLower(s), " ", "")); err == nil {
		return d, nil
	}

	if p.natural != nil {
		now := p.clock.Now()
		t, err := p.natural.ParseDate(s, now)
		if err == nil && t != nil {
			if d := t.Sub(now); d > 0 {
				return d.Round(time.Second), nil
			}
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
}
