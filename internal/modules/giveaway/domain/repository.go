package domain

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
)

var (
	// ErrNotFound is returned when a giveaway does not exist.
	ErrNotFound = errors.New("giveaway not found")

	// ErrDuplicateID is returned when creating a giveaway whose id is taken.
	ErrDuplicateID = errors.New("giveaway id already exists")
)

// Repository persists giveaways.
type Repository interface {
	// Create stores a new giveaway. Returns ErrDuplicateID if the id exists.
	Create(ctx context.Context, g *Giveaway) error

	// Get returns the giveaway with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Giveaway, error)

	// Update atomically applies fn to the stored giveaway and persists the
	// result. If fn returns an error nothing is written and that error is returned.
	Update(ctx context.Context, id string, fn func(g *Giveaway) error) (*Giveaway, error)

	// List returns the giveaways of a guild, or of every guild when guildID is 0.
	List(ctx context.Context, guildID snowflake.ID) ([]*Giveaway, error)
}

// TriviaAttempts counts failed trivia answers per giveaway and user.
type TriviaAttempts interface {
	// Get returns the number of failed attempts.
	Get(ctx context.Context, giveawayID string, userID snowflake.ID) (int, error)

	// Increment adds one failed attempt and returns the new count.
	Increment(ctx context.Context, giveawayID string, userID snowflake.ID) (int, error)
}
