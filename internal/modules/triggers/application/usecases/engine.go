package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/sglre6355/giveawaybot/internal/limits"
	"github.com/sglre6355/giveawaybot/internal/modules/triggers/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/triggers/domain"
)

// actionScope prefixes the action ledger type of every rule.
const actionScope = "trigger:"

// Outcome records why a rule did or did not fire for a message.
type Outcome string

const (
	OutcomeFired        Outcome = "fired"
	OutcomeSkipped      Outcome = "skipped"
	OutcomeListError    Outcome = "list_error"
	OutcomeChannel      Outcome = "channel"
	OutcomeNoMatch      Outcome = "no_match"
	OutcomeCooldown     Outcome = "cooldown"
	OutcomeUserLimit    Outcome = "user_limit"
	OutcomeActionFailed Outcome = "action_failed"
)

// Engine evaluates trigger rules against inbound messages.
type Engine struct {
	rules     ports.RuleSource
	cooldowns *limits.CooldownLedger
	actions   *limits.ActionLedger
	messenger ports.Messenger
	pick      func(n int) int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithPicker replaces the random item picker. pick returns an index in [0, n).
func WithPicker(pick func(n int) int) EngineOption {
	return func(e *Engine) {
		e.pick = pick
	}
}

// NewEngine creates an Engine.
func NewEngine(
	rules ports.RuleSource,
	cooldowns *limits.CooldownLedger,
	actions *limits.ActionLedger,
	messenger ports.Messenger,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		rules:     rules,
		cooldowns: cooldowns,
		actions:   actions,
		messenger: messenger,
		pick:      rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleMessage evaluates every rule against msg and returns the outcome per
// rule name. Rule failures are logged and never stop the remaining rules.
func (e *Engine) HandleMessage(ctx context.Context, msg domain.Message) (map[string]Outcome, error) {
	if msg.AuthorBot {
		return nil, nil
	}

	rules, err := e.rules.Rules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trigger rules: %w", err)
	}

	outcomes := make(map[string]Outcome, len(rules))
	for _, rule := range rules {
		outcome, err := e.evaluate(ctx, rule, msg)
		if err != nil {
			slog.Warn("failed to run trigger rule",
				"rule", rule.Name,
				"outcome", outcome,
				"channel", msg.ChannelID,
				"error", err,
			)
		}
		outcomes[rule.Name] = outcome
	}
	return outcomes, nil
}

// evaluate applies the gates of rule in order and performs its action.
func (e *Engine) evaluate(ctx context.Context, rule domain.Rule, msg domain.Message) (Outcome, error) {
	if !rule.AppliesTo(msg.GuildID) {
		return OutcomeSkipped, nil
	}

	var channels, triggers, items []string
	var err error
	if rule.Channels != "" {
		if channels, err = e.rules.List(ctx, rule.Channels); err != nil {
			return OutcomeListError, err
		}
	}
	if rule.NeedsTriggers() {
		if triggers, err = e.rules.List(ctx, rule.Triggers); err != nil {
			return OutcomeListError, err
		}
	}
	if rule.NeedsItems() {
		if items, err = e.rules.List(ctx, rule.Items); err != nil {
			return OutcomeListError, err
		}
		if len(items) == 0 {
			return OutcomeListError, fmt.Errorf("list %q is empty", rule.Items)
		}
	}

	if rule.Channels != "" && !slices.Contains(channels, msg.ChannelID) {
		return OutcomeChannel, nil
	}

	if rule.NeedsTriggers() && !rule.Match.MatchAny(msg.Content, triggers) {
		return OutcomeNoMatch, nil
	}

	var item string
	if len(items) > 0 {
		item = items[e.pick(len(items))]
	}

	if rule.Cooldown.Enabled() {
		var itemLimits []limits.ItemLimit
		if rule.Cooldown.ItemMaxUses > 0 && item != "" {
			itemLimits = append(itemLimits, limits.ItemLimit{Item: item, MaxUses: rule.Cooldown.ItemMaxUses})
		}
		if !e.cooldowns.TryConsume(actionScope+rule.Name, rule.Cooldown.Interval, rule.Cooldown.Charges, itemLimits...) {
			return OutcomeCooldown, nil
		}
	}

	ok, err := e.actions.TryRecord(ctx, actionScope+rule.Name, msg.AuthorID, rule.PerUser.Max, scopeOf(msg), rule.PerUser.Reset)
	if err != nil {
		return OutcomeUserLimit, err
	}
	if !ok {
		return OutcomeUserLimit, nil
	}

	if err := e.perform(ctx, rule, msg, item); err != nil {
		return OutcomeActionFailed, err
	}

	slog.Debug("fired trigger rule", "rule", rule.Name, "action", rule.Action, "user", msg.AuthorID)
	return OutcomeFired, nil
}

func (e *Engine) perform(ctx context.Context, rule domain.Rule, msg domain.Message, item string) error {
	switch rule.Action {
	case domain.ActionReact:
		return e.messenger.React(ctx, msg, item)
	case domain.ActionReply:
		return e.messenger.Reply(ctx, msg, domain.Render(item, msg))
	case domain.ActionRespond:
		return e.messenger.Send(ctx, msg, domain.Render(item, msg))
	case domain.ActionCommand:
		return e.messenger.RunCommand(ctx, msg, rule.Command)
	default:
		return fmt.Errorf("unknown action %q", rule.Action)
	}
}

// scopeOf returns the action ledger scope of msg: its guild, or "dm".
func scopeOf(msg domain.Message) string {
	if msg.GuildID == "" {
		return "dm"
	}
	return msg.GuildID
}
