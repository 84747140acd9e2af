package giveaway

import (
	"time"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// Config holds the giveaway module configuration.
type Config struct {
	MaxWinners     int           `env:"GIVEAWAY_MAX_WINNERS"      envDefault:"50"`
	MaxDuration    time.Duration `env:"GIVEAWAY_MAX_DURATION"     envDefault:"720h"`
	MaxTitleLength int           `env:"GIVEAWAY_MAX_TITLE_LENGTH" envDefault:"100"`
	MaxPrizeLength int           `env:"GIVEAWAY_MAX_PRIZE_LENGTH" envDefault:"200"`
	ListPageSize   int           `env:"GIVEAWAY_LIST_PAGE_SIZE"   envDefault:"5"`
}

// Limits returns the draft validation limits.
func (c *Config) Limits() domain.Limits {
	return domain.Limits{
		MaxWinners:     c.MaxWinners,
		MaxDuration:    c.MaxDuration,
		MaxTitleLength: c.MaxTitleLength,
		MaxPrizeLength: c.MaxPrizeLength,
	}
}
