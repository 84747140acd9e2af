package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
)

// Limits bounds user-supplied giveaway fields.
type Limits struct {
	MaxWinners     int
	MaxDuration    time.Duration
	MaxTitleLength int
	MaxPrizeLength int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxWinners:     50,
		MaxDuration:    30 * 24 * time.Hour,
		MaxTitleLength: 100,
		MaxPrizeLength: 200,
	}
}

// ValidationError reports user-correctable problems with a draft.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid giveaway: " + strings.Join(e.Problems, "; ")
}

// Draft is the in-progress configuration of a giveaway that has not been
// announced yet.
type Draft struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	CreatorID snowflake.ID

	Title       string
	Prize       string
	Duration    time.Duration
	WinnerCount int
	Entry       EntryMode
}

// NewDraft returns a draft with one winner and button entry.
func NewDraft(guildID, channelID, creatorID snowflake.ID) Draft {
	return Draft{
		GuildID:     guildID,
		ChannelID:   channelID,
		CreatorID:   creatorID,
		WinnerCount: 1,
		Entry:       ButtonMode(),
	}
}

// Validate checks that the draft can be started.
func (d Draft) Validate(limits Limits) error {
	var problems []string

	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		problems = append(problems, "a title is required")
	case limits.MaxTitleLength > 0 && utf8.RuneCountInString(title) > limits.MaxTitleLength:
		problems = append(problems, fmt.Sprintf("the title must be at most %d characters", limits.MaxTitleLength))
	}

	prize := strings.TrimSpace(d.Prize)
	switch {
	case prize == "":
		problems = append(problems, "a prize is required")
	case limits.MaxPrizeLength > 0 && utf8.RuneCountInString(prize) > limits.MaxPrizeLength:
		problems = append(problems, fmt.Sprintf("the prize must be at most %d characters", limits.MaxPrizeLength))
	}

	switch {
	case d.Duration <= 0:
		problems = append(problems, "the duration must be positive")
	case limits.MaxDuration > 0 && d.Duration > limits.MaxDuration:
		problems = append(problems, fmt.Sprintf("the duration must be at most %s", limits.MaxDuration))
	}

	switch {
	case d.WinnerCount < 1:
		problems = append(problems, "there must be at least one winner")
	case limits.MaxWinners > 0 && d.WinnerCount > limits.MaxWinners:
		problems = append(problems, fmt.Sprintf("there can be at most %d winners", limits.MaxWinners))
	}

	problems = append(problems, d.Entry.Problems()...)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Build turns the draft into an active giveaway starting at now.
func (d Draft) Build(id string, now time.Time) *Giveaway {
	return &Giveaway{
		ID:          id,
		GuildID:     d.GuildID,
		ChannelID:   d.ChannelID,
		CreatorID:   d.CreatorID,
		Title:       strings.TrimSpace(d.Title),
		Prize:       strings.TrimSpace(d.Prize),
		StartTime:   now,
		EndTime:     now.Add(d.Duration),
		Entry:       d.Entry.clone(),
		WinnerCount: d.WinnerCount,
	}
}
