package ports

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// ErrEntryRefused wraps entrant errors that are expected outcomes rather than
// failures, such as a repeat entry or a reaction at the end time.
var ErrEntryRefused = errors.New("entry refused")

// EntrantHandler records a user who entered a giveaway by reacting.
type EntrantHandler func(ctx context.Context, giveawayID string, userID snowflake.ID) error

// ReactionCampaigns attaches reaction-entry campaigns to announcements.
type ReactionCampaigns interface {
	// Open starts collecting reactions for g, treating its current
	// participants as already collected.
	Open(g *domain.Giveaway, onEntry EntrantHandler)

	// Close stops collecting reactions on the announcement message.
	Close(messageID snowflake.ID)
}
