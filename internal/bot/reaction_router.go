package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

// ReactionEvent is a normalized reaction-added event.
type ReactionEvent struct {
	MessageID string
	ChannelID string
	GuildID   string
	UserID    string

	// User is nil when the gateway payload did not include the reacting user.
	User  *discordgo.User
	Emoji discordgo.Emoji
}

// ErrReactionRefused marks handler errors that are an expected outcome, such as
// a user who already entered. They are logged at debug level.
var ErrReactionRefused = errors.New("reaction refused")

// ReactionHandler is called once per user that passes every campaign gate.
type ReactionHandler func(ctx context.Context, ev ReactionEvent) error

// UserLookup resolves a user by id.
type UserLookup func(userID string) (*discordgo.User, error)

type campaign struct {
	messageID   string
	emoji       string
	handler     ReactionHandler
	endTime     time.Time
	guildID     string
	maxEntrants int
	allowBots   bool

	collected map[string]struct{}
	pending   map[string]struct{}
}

// ReactionOption configures a reaction campaign.
type ReactionOption func(*campaign)

// WithEndTime rejects reactions added after t.
func WithEndTime(t time.Time) ReactionOption {
	return func(c *campaign) {
		c.endTime = t
	}
}

// WithGuild restricts the campaign to reactions from one guild.
func WithGuild(guildID string) ReactionOption {
	return func(c *campaign) {
		c.guildID = guildID
	}
}

// WithMaxEntrants caps the number of users the handler is called for.
func WithMaxEntrants(n int) ReactionOption {
	return func(c *campaign) {
		c.maxEntrants = n
	}
}

// WithAllowBots lets reactions from bot accounts through.
func WithAllowBots() ReactionOption {
	return func(c *campaign) {
		c.allowBots = true
	}
}

// CampaignInfo is a snapshot of a registered campaign.
type CampaignInfo struct {
	MessageID   string
	Emoji       string
	EndTime     time.Time
	GuildID     string
	MaxEntrants int
	Collected   int
}

// ReactionRouter dispatches reaction-added events to the campaign registered
// for the reacted message. A message hosts at most one campaign.
type ReactionRouter struct {
	mu        sync.Mutex
	campaigns map[string]*campaign
	clock     scheduler.Clock
	lookup    UserLookup
}

// NewReactionRouter creates a ReactionRouter. lookup resolves users missing
// from partial payloads and may be nil.
func NewReactionRouter(clock scheduler.Clock, lookup UserLookup) *ReactionRouter {
	if clock == nil {
		clock = scheduler.SystemClock{}
	}
	return &ReactionRouter{
		campaigns: make(map[string]*campaign),
		clock:     clock,
		lookup:    lookup,
	}
}

// SetUserLookup replaces the user lookup.
func (r *ReactionRouter) SetUserLookup(lookup UserLookup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookup = lookup
}

// Register starts a campaign on messageID for the emoji identifier, replacing
// any campaign already registered for that message. The identifier is a custom
// emoji id or a unicode emoji.
func (r *ReactionRouter) Register(messageID, emoji string, handler ReactionHandler, opts ...ReactionOption) {
	c := &campaign{
		messageID: messageID,
		emoji:     emoji,
		handler:   handler,
		collected: make(map[string]struct{}),
		pending:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.campaigns[messageID] = c
}

// Unregister removes the campaign for messageID and reports whether one existed.
func (r *ReactionRouter) Unregister(messageID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.campaigns[messageID]; !ok {
		return false
	}
	delete(r.campaigns, messageID)
	return true
}

// Seed marks users as already collected, e.g. after a restart.
func (r *ReactionRouter) Seed(messageID string, userIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[messageID]
	if !ok {
		return
	}
	for _, id := range userIDs {
		c.collected[id] = struct{}{}
	}
}

// Campaign returns a snapshot of the campaign registered for messageID.
func (r *ReactionRouter) Campaign(messageID string) (CampaignInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[messageID]
	if !ok {
		return CampaignInfo{}, false
	}
	return CampaignInfo{
		MessageID:   c.messageID,
		Emoji:       c.emoji,
		EndTime:     c.endTime,
		GuildID:     c.guildID,
		MaxEntrants: c.maxEntrants,
		Collected:   len(c.collected),
	}, true
}

// HandleReactionAdd is the discordgo event handler for MessageReactionAdd events.
func (r *ReactionRouter) HandleReactionAdd(s *discordgo.Session, e *discordgo.MessageReactionAdd) {
	ev := ReactionEvent{
		MessageID: e.MessageID,
		ChannelID: e.ChannelID,
		GuildID:   e.GuildID,
		UserID:    e.UserID,
		Emoji:     e.Emoji,
	}
	if e.Member != nil && e.Member.User != nil {
		ev.User = e.Member.User
	}

	r.Dispatch(context.Background(), ev)
}

// Dispatch runs the campaign gates for ev and calls the handler when all pass.
// It reports whether the handler ran successfully.
func (r *ReactionRouter) Dispatch(ctx context.Context, ev ReactionEvent) bool {
	r.mu.Lock()
	c, ok := r.campaigns[ev.MessageID]
	lookup := r.lookup
	r.mu.Unlock()
	if !ok {
		return false
	}

	if ev.User != nil && ev.User.Bot && !c.allowBots {
		return false
	}

	if ev.User == nil {
		if lookup == nil {
			slog.Warn("failed to resolve reacting user", "message", ev.MessageID, "user", ev.UserID)
			return false
		}
		user, err := lookup(ev.UserID)
		if err == nil && user == nil {
			err = errors.New("user not found")
		}
		if err != nil {
			slog.Warn("failed to resolve reacting user",
				"message", ev.MessageID,
				"user", ev.UserID,
				"error", err,
			)
			return false
		}
		ev.User = user
		if user.Bot && !c.allowBots {
			return false
		}
	}

	if !emojiMatches(ev.Emoji, c.emoji) {
		return false
	}

	if !c.endTime.IsZero() && r.clock.Now().After(c.endTime) {
		return false
	}

	if c.guildID != "" && ev.GuildID != c.guildID {
		return false
	}

	if !r.reserve(c, ev.UserID) {
		return false
	}

	err := c.handler(ctx, ev)

	r.mu.Lock()
	delete(c.pending, ev.UserID)
	if err == nil {
		c.collected[ev.UserID] = struct{}{}
	}
	r.mu.Unlock()

	if err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrReactionRefused) {
			level = slog.LevelDebug
		}
		slog.Log(ctx, level, "failed to handle reaction",
			"message", ev.MessageID,
			"user", ev.UserID,
			"error", err,
		)
		return false
	}

	return true
}

// reserve applies the dedup and entrant-cap gates and marks the user pending.
func (r *ReactionRouter) reserve(c *campaign, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, done := c.collected[userID]; done {
		return false
	}
	if _, inFlight := c.pending[userID]; inFlight {
		return false
	}
	if c.maxEntrants > 0 && len(c.collected)+len(c.pending) >= c.maxEntrants {
		return false
	}

	c.pending[userID] = struct{}{}
	return true
}

func emojiMatches(e discordgo.Emoji, identifier string) bool {
	if e.ID != "" {
		return e.ID == identifier
	}
	return e.Name == identifier
}
