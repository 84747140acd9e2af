package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// UserResolver looks up how a user is displayed in a guild.
type UserResolver interface {
	DisplayName(ctx context.Context, guildID, userID snowflake.ID) (string, error)
}
