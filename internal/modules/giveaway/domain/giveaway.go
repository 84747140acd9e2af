package domain

import (
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Status is the lifecycle state of a persisted giveaway.
type Status int

const (
	StatusActive Status = iota
	StatusEnded
	StatusCancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusEnded:
		return "ended"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Giveaway is an announced giveaway. Cancelled implies Ended.
type Giveaway struct {
	ID        string       `json:"id"`
	GuildID   snowflake.ID `json:"guild_id"`
	ChannelID snowflake.ID `json:"channel_id"`
	MessageID snowflake.ID `json:"message_id"`
	CreatorID snowflake.ID `json:"creator_id"`

	Title string `json:"title"`
	Prize string `json:"prize"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Entry       EntryMode `json:"entry"`
	WinnerCount int       `json:"winner_count"`

	Participants []snowflake.ID `json:"participants"`
	Winners      []snowflake.ID `json:"winners"`

	Ended     bool `json:"ended"`
	Cancelled bool `json:"cancelled"`
}

// Status derives the lifecycle state from the flags.
func (g *Giveaway) Status() Status {
	switch {
	case g.Cancelled:
		return StatusCancelled
	case g.Ended:
		return StatusEnded
	default:
		return StatusActive
	}
}

// IsOpen reports whether entries are accepted at now.
func (g *Giveaway) IsOpen(now time.Time) bool {
	return !g.Ended && now.Before(g.EndTime)
}

// IsActive reports whether the giveaway is neither ended nor cancelled and has
// not yet reached its end time.
func (g *Giveaway) IsActive(now time.Time) bool {
	return !g.Ended && !g.Cancelled && g.EndTime.After(now)
}

// HasParticipant reports whether userID has entered.
func (g *Giveaway) HasParticipant(userID snowflake.ID) bool {
	return slices.Contains(g.Participants, userID)
}

// IsWinner reports whether userID won.
func (g *Giveaway) IsWinner(userID snowflake.ID) bool {
	return slices.Contains(g.Winners, userID)
}

// AddParticipant records userID and reports whether it was newly added.
func (g *Giveaway) AddParticipant(userID snowflake.ID) bool {
	if g.HasParticipant(userID) {
		return false
	}
	g.Participants = append(g.Participants, userID)
	return true
}

// Clone returns a deep copy.
func (g *Giveaway) Clone() *Giveaway {
	c := *g
	c.Participants = slices.Clone(g.Participants)
	c.Winners = slices.Clone(g.Winners)
	c.Entry = g.Entry.clone()
	return &c
}
