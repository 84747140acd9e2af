package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRule is returned when a rule definition cannot be used.
var ErrInvalidRule = errors.New("invalid trigger rule")

// Action is what a rule does once every gate passes.
type Action string

const (
	ActionReact   Action = "react"
	ActionReply   Action = "reply"
	ActionRespond Action = "respond"
	ActionCommand Action = "command"
)

// Cooldown configures the shared bucket of a rule. A zero Charges disables it.
type Cooldown struct {
	Interval time.Duration
	Charges  int

	// ItemMaxUses caps how often one item may be used per interval. Zero
	// disables the per-item limit.
	ItemMaxUses int
}

// Enabled reports whether the cooldown gate applies.
func (c Cooldown) Enabled() bool {
	return c.Charges > 0 && c.Interval > 0
}

// PerUser configures the per-user action ledger gate. A Max of zero disables it.
type PerUser struct {
	Max int

	// Reset is nil for a lifetime limit.
	Reset *time.Duration
}

// Rule is one configured trigger and its response.
type Rule struct {
	Name    string
	Enabled bool

	// GuildID scopes the rule to one guild. Empty means every guild.
	GuildID string

	Action Action
	Match  MatchMode

	// Ambient rules react to every message without matching a trigger.
	Ambient bool

	// Triggers, Items and Channels name list documents.
	Triggers string
	Items    string
	Channels string

	// Command is the message command run by ActionCommand rules.
	Command string

	Cooldown Cooldown
	PerUser  PerUser
}

// AppliesTo reports whether the rule is enabled for guildID.
func (r Rule) AppliesTo(guildID string) bool {
	return r.Enabled && (r.GuildID == "" || r.GuildID == guildID)
}

// NeedsTriggers reports whether the rule matches message content.
func (r Rule) NeedsTriggers() bool {
	return !(r.Ambient && r.Action == ActionReact)
}

// NeedsItems reports whether the rule picks an item to send or react with.
func (r Rule) NeedsItems() bool {
	return r.Action != ActionCommand
}

// Validate checks that the rule is complete.
func (r Rule) Validate() error {
	var problems []string

	if strings.TrimSpace(r.Name) == "" {
		problems = append(problems, "name is required")
	}

	switch r.Action {
	case ActionReact, ActionReply, ActionRespond:
		if r.Items == "" {
			problems = append(problems, "items list is required")
		}
	case ActionCommand:
		if r.Command == "" {
			problems = append(problems, "command is required")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown action %q", r.Action))
	}

	if r.Ambient && r.Action != ActionReact {
		problems = append(problems, "only react rules can be ambient")
	}

	if r.NeedsTriggers() {
		if r.Triggers == "" {
			problems = append(problems, "triggers list is required")
		}
		if _, err := ParseMatchMode(string(r.Match)); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if r.Cooldown.Charges < 0 || r.Cooldown.Interval < 0 || r.Cooldown.ItemMaxUses < 0 {
		problems = append(problems, "cooldown values must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidRule, r.Name, strings.Join(problems, "; "))
	}
	return nil
}

// Message is an inbound chat message.
type Message struct {
	ID        string
	GuildID   string
	ChannelID string
	AuthorID  string
	AuthorBot bool
	Content   string
}

// Render substitutes the {user} placeholder with a mention of the author.
func Render(template string, msg Message) string {
	return strings.ReplaceAll(template, "{user}", "<@"+msg.AuthorID+">")
}
