package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// ResolvedUser is a user id with a display name. Name falls back to a mention
// of the raw id when the user could not be looked up.
type ResolvedUser struct {
	ID       snowflake.ID
	Name     string
	Resolved bool
}

// Announcer publishes giveaway state to the giveaway's channel.
type Announcer interface {
	// Announce posts the announcement for a new giveaway and returns its message id.
	Announce(ctx context.Context, g *domain.Giveaway) (snowflake.ID, error)

	// AddReaction adds the entry emoji to a reaction giveaway's announcement.
	AddReaction(ctx context.Context, g *domain.Giveaway) error

	// AnnounceResults posts the results of a giveaway that ended normally.
	AnnounceResults(ctx context.Context, g *domain.Giveaway, winners []ResolvedUser) error

	// MarkEnded edits the announcement into its ended state with controls disabled.
	MarkEnded(ctx context.Context, g *domain.Giveaway, winners []ResolvedUser) error

	// MarkCancelled edits the announcement into its cancelled state.
	MarkCancelled(ctx context.Context, g *domain.Giveaway) error

	// Retract deletes an announcement whose giveaway could not be stored.
	Retract(ctx context.Context, g *domain.Giveaway) error
}
