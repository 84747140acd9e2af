package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// ClaimOutcome is what a user learns when claiming.
type ClaimOutcome int

const (
	// ClaimNotWinner means the user did not win.
	ClaimNotWinner ClaimOutcome = iota

	// ClaimWinner means the user won and may see the prize.
	ClaimWinner

	// ClaimOverview means the user created or manages the giveaway and sees every winner.
	ClaimOverview
)

// ClaimResult is the read-only view returned by Claim.
type ClaimResult struct {
	Outcome  ClaimOutcome
	IsWinner bool
	Giveaway *domain.Giveaway
	Winners  []ports.ResolvedUser
}

// Claim reports the result of an ended giveaway to userID without modifying it.
func (e *Engine) Claim(ctx context.Context, id string, userID snowflake.ID, manager bool) (*ClaimResult, error) {
	g, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch g.Status() {
	case domain.StatusCancelled:
		return nil, ErrCancelled
	case domain.StatusActive:
		return nil, ErrNotEnded
	}

	result := &ClaimResult{
		Outcome:  ClaimNotWinner,
		IsWinner: g.IsWinner(userID),
		Giveaway: g,
	}

	switch {
	case manager || g.CreatorID == userID:
		result.Outcome = ClaimOverview
		result.Winners = e.resolveUsers(ctx, g.GuildID, g.Winners)
	case result.IsWinner:
		result.Outcome = ClaimWinner
	}

	return result, nil
}
