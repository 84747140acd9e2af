package usecases

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

// Actor is the user performing a management action.
type Actor struct {
	UserID  snowflake.ID
	GuildID snowflake.ID

	// Manager is set when the user holds the guild's giveaway management permission.
	Manager bool
}

// CanManage reports whether actor may finish or cancel g.
func (a Actor) CanManage(g *domain.Giveaway) bool {
	return a.Manager || a.UserID == g.CreatorID
}

// Engine owns the giveaway lifecycle.
type Engine struct {
	repo      domain.Repository
	attempts  domain.TriviaAttempts
	announcer ports.Announcer
	campaigns ports.ReactionCampaigns
	users     ports.UserResolver
	scheduler scheduler.Scheduler
	clock     scheduler.Clock
	limits    domain.Limits
	newID     func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithIDGenerator replaces the uuid id generator.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

// WithLimits sets the draft validation limits.
func WithLimits(l domain.Limits) EngineOption {
	return func(e *Engine) {
		e.limits = l
	}
}

// NewEngine creates an Engine.
func NewEngine(
	repo domain.Repository,
	attempts domain.TriviaAttempts,
	announcer ports.Announcer,
	campaigns ports.ReactionCampaigns,
	users ports.UserResolver,
	sched scheduler.Scheduler,
	clock scheduler.Clock,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		repo:      repo,
		attempts:  attempts,
		announcer: announcer,
		campaigns: campaigns,
		users:     users,
		scheduler: sched,
		clock:     clock,
		limits:    domain.DefaultLimits(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limits returns the validation limits.
func (e *Engine) Limits() domain.Limits {
	return e.limits
}

// Start validates the draft, announces it, persists it and schedules its end.
// Nothing is persisted when validation or the announcement fails.
func (e *Engine) Start(ctx context.Context, draft domain.Draft) (*domain.Giveaway, error) {
	if err := draft.Validate(e.limits); err != nil {
		return nil, err
	}

	g := draft.Build(e.newID(), e.clock.Now())

	messageID, err := e.announcer.Announce(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("failed to announce giveaway: %w", err)
	}
	g.MessageID = messageID

	if err := e.repo.Create(ctx, g); err != nil {
		if rerr := e.announcer.Retract(ctx, g); rerr != nil {
			slog.Error("failed to retract announcement", "giveaway", g.ID, "message", g.MessageID, "error", rerr)
		}
		return nil, fmt.Errorf("failed to persist giveaway: %w", err)
	}

	if g.Entry.Kind == domain.EntryReaction {
		if err := e.announcer.AddReaction(ctx, g); err != nil {
			slog.Warn("failed to add entry reaction", "giveaway", g.ID, "error", err)
		}
		e.campaigns.Open(g, e.AddReactionEntrant)
	}

	slog.Info("started giveaway",
		"giveaway", g.ID,
		"guild", g.GuildID,
		"mode", g.Entry.Kind,
		"end_time", g.EndTime,
	)

	if err := e.schedule(ctx, g); err != nil {
		slog.Error("failed to schedule giveaway end", "giveaway", g.ID, "error", err)
	}

	return g, nil
}

// schedule registers the termination timer for g, or terminates it right away
// when its end time has passed.
func (e *Engine) schedule(ctx context.Context, g *domain.Giveaway) error {
	if !g.EndTime.After(e.clock.Now()) {
		e.scheduler.Cancel(g.ID)
		_, err := e.Terminate(ctx, g.ID)
		return err
	}

	id := g.ID
	e.scheduler.Schedule(id, g.EndTime, func() {
		if _, err := e.Terminate(context.Background(), id); err != nil && !isTerminal(err) {
			slog.Error("failed to end giveaway", "giveaway", id, "error", err)
		}
	})
	return nil
}

func isTerminal(err error) bool {
	return errors.Is(err, ErrAlreadyEnded) || errors.Is(err, ErrCancelled)
}

// Terminate ends an active giveaway normally and draws its winners.
// It is refused with ErrAlreadyEnded or ErrCancelled when the giveaway already
// reached a terminal state.
func (e *Engine) Terminate(ctx context.Context, id string) (*domain.Giveaway, error) {
	g, err := e.repo.Update(ctx, id, func(g *domain.Giveaway) error {
		if err := refuseTerminal(g); err != nil {
			return err
		}
		winners, err := domain.SelectWinners(g.Participants, g.WinnerCount)
		if err != nil {
			return err
		}
		g.Ended = true
		g.Winners = winners
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.scheduler.Cancel(id)
	if g.Entry.Kind == domain.EntryReaction {
		e.campaigns.Close(g.MessageID)
	}

	winners := e.resolveUsers(ctx, g.GuildID, g.Winners)

	if err := e.announcer.AnnounceResults(ctx, g, winners); err != nil {
		slog.Warn("failed to announce results", "giveaway", id, "error", err)
	}
	if err := e.announcer.MarkEnded(ctx, g, winners); err != nil {
		slog.Warn("failed to mark announcement ended", "giveaway", id, "error", err)
	}

	slog.Info("ended giveaway",
		"giveaway", id,
		"participants", len(g.Participants),
		"winners", len(g.Winners),
	)

	return g, nil
}

// Cancel cancels an active giveaway. Participants are kept and no winners are drawn.
func (e *Engine) Cancel(ctx context.Context, id string, actor Actor) (*domain.Giveaway, error) {
	g, err := e.repo.Update(ctx, id, func(g *domain.Giveaway) error {
		if err := authorize(g, actor); err != nil {
			return err
		}
		if err := refuseTerminal(g); err != nil {
			return err
		}
		g.Ended = true
		g.Cancelled = true
		g.Winners = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.scheduler.Cancel(id)
	if g.Entry.Kind == domain.EntryReaction {
		e.campaigns.Close(g.MessageID)
	}

	if err := e.announcer.MarkCancelled(ctx, g); err != nil {
		slog.Warn("failed to mark announcement cancelled", "giveaway", id, "error", err)
	}

	slog.Info("cancelled giveaway", "giveaway", id, "user", actor.UserID)

	return g, nil
}

// FinishNow moves the end time into the past and runs the normal termination.
func (e *Engine) FinishNow(ctx context.Context, id string, actor Actor) (*domain.Giveaway, error) {
	g, err := e.repo.Update(ctx, id, func(g *domain.Giveaway) error {
		if err := authorize(g, actor); err != nil {
			return err
		}
		if err := refuseTerminal(g); err != nil {
			return err
		}
		g.EndTime = e.clock.Now().Add(-time.Second)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := e.schedule(ctx, g); err != nil {
		return nil, err
	}
	return e.repo.Get(ctx, id)
}

func authorize(g *domain.Giveaway, actor Actor) error {
	if g.GuildID != actor.GuildID {
		return ErrNotFound
	}
	if !actor.CanManage(g) {
		return ErrNotPermitted
	}
	return nil
}

func refuseTerminal(g *domain.Giveaway) error {
	switch g.Status() {
	case domain.StatusCancelled:
		return ErrCancelled
	case domain.StatusEnded:
		return ErrAlreadyEnded
	default:
		return nil
	}
}

// Get returns a giveaway of the given guild.
func (e *Engine) Get(ctx context.Context, id string, guildID snowflake.ID) (*domain.Giveaway, error) {
	g, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.GuildID != guildID {
		return nil, ErrNotFound
	}
	return g, nil
}

// List returns a guild's giveaways, most recent first. With activeOnly, only
// giveaways that are neither ended nor cancelled and whose end time is still in
// the future are returned.
func (e *Engine) List(ctx context.Context, guildID snowflake.ID, activeOnly bool) ([]*domain.Giveaway, error) {
	all, err := e.repo.List(ctx, guildID)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	result := all
	if activeOnly {
		result = slices.DeleteFunc(all, func(g *domain.Giveaway) bool {
			return !g.IsActive(now)
		})
	}

	slices.SortStableFunc(result, func(a, b *domain.Giveaway) int {
		if c := b.StartTime.Compare(a.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return result, nil
}

// RecoveryReport summarizes a startup recovery sweep.
type RecoveryReport struct {
	Terminated  int
	Rescheduled int
	Campaigns   int
}

// Recover restores timers and reaction campaigns for every active giveaway.
// Giveaways whose end time passed while the process was down end immediately.
func (e *Engine) Recover(ctx context.Context) (RecoveryReport, error) {
	var report RecoveryReport

	all, err := e.repo.List(ctx, 0)
	if err != nil {
		return report, fmt.Errorf("failed to list giveaways: %w", err)
	}

	now := e.clock.Now()
	for _, g := range all {
		if g.Ended {
			continue
		}

		if !g.EndTime.After(now) {
			if err := e.schedule(ctx, g); err != nil && !isTerminal(err) {
				slog.Error("failed to end overdue giveaway", "giveaway", g.ID, "error", err)
				continue
			}
			report.Terminated++
			continue
		}

		if g.Entry.Kind == domain.EntryReaction {
			e.campaigns.Open(g, e.AddReactionEntrant)
			report.Campaigns++
		}
		if err := e.schedule(ctx, g); err != nil {
			slog.Error("failed to reschedule giveaway", "giveaway", g.ID, "error", err)
			continue
		}
		report.Rescheduled++
	}

	slog.Info("recovered giveaways",
		"terminated", report.Terminated,
		"rescheduled", report.Rescheduled,
		"campaigns", report.Campaigns,
	)

	return report, nil
}

// resolveUsers looks up display names, falling back to a mention of the raw id.
func (e *Engine) resolveUsers(ctx context.Context, guildID snowflake.ID, ids []snowflake.ID) []ports.ResolvedUser {
	resolved := make([]ports.ResolvedUser, 0, len(ids))
	for _, id := range ids {
		user := ports.ResolvedUser{ID: id, Name: fmt.Sprintf("<@%d>", id)}
		if e.users != nil {
			name, err := e.users.DisplayName(ctx, guildID, id)
			if err != nil {
				slog.Debug("failed to resolve user", "user", id, "error", err)
			} else if name != "" {
				user.Name = name
				user.Resolved = true
			}
		}
		resolved = append(resolved, user)
	}
	return resolved
}
