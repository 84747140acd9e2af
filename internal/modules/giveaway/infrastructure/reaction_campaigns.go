package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// Ensure ReactionCampaigns implements ports.ReactionCampaigns.
var _ ports.ReactionCampaigns = (*ReactionCampaigns)(nil)

// ReactionCampaigns registers reaction giveaways with the bot's reaction router.
type ReactionCampaigns struct {
	router *bot.ReactionRouter
}

// NewReactionCampaigns creates a ReactionCampaigns on router.
func NewReactionCampaigns(router *bot.ReactionRouter) *ReactionCampaigns {
	return &ReactionCampaigns{router: router}
}

// Open starts collecting reactions on the announcement of g until its end time.
func (c *ReactionCampaigns) Open(g *domain.Giveaway, onEntry ports.EntrantHandler) {
	if g.Entry.Reaction == nil || g.MessageID == 0 {
		return
	}

	giveawayID := g.ID
	messageID := g.MessageID.String()

	c.router.Register(
		messageID,
		g.Entry.Reaction.Identifier,
		func(ctx context.Context, ev bot.ReactionEvent) error {
			userID, err := snowflake.Parse(ev.UserID)
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", ev.UserID, err)
			}
			err = onEntry(ctx, giveawayID, userID)
			if errors.Is(err, ports.ErrEntryRefused) {
				return fmt.Errorf("%w: %w", bot.ErrReactionRefused, err)
			}
			return err
		},
		bot.WithEndTime(g.EndTime),
		bot.WithGuild(g.GuildID.String()),
	)

	if len(g.Participants) > 0 {
		ids := make([]string, len(g.Participants))
		for i, id := range g.Participants {
			ids[i] = id.String()
		}
		c.router.Seed(messageID, ids...)
	}
}

// Close stops collecting reactions on messageID.
func (c *ReactionCampaigns) Close(messageID snowflake.ID) {
	c.router.Unregister(messageID.String())
}
