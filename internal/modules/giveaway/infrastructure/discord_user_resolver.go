package infrastructure

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/ports"
)

// Ensure DiscordUserResolver implements ports.UserResolver.
var _ ports.UserResolver = (*DiscordUserResolver)(nil)

// MemberFetcher fetches guild members. *discordgo.Session satisfies it.
type MemberFetcher interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// DiscordUserResolver resolves display names from guild membership.
type DiscordUserResolver struct {
	members MemberFetcher
}

// NewDiscordUserResolver creates a new DiscordUserResolver.
func NewDiscordUserResolver(members MemberFetcher) *DiscordUserResolver {
	return &DiscordUserResolver{members: members}
}

// DisplayName returns the member's effective name in the guild.
func (r *DiscordUserResolver) DisplayName(ctx context.Context, guildID, userID snowflake.ID) (string, error) {
	member, err := r.members.GuildMember(
		guildID.String(),
		userID.String(),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("failed to fetch guild member: %w", err)
	}
	if member.User == nil {
		return member.Nick, nil
	}
	return displayName(member), nil
}

// displayName returns the effective display name for a guild member.
// Priority: guild nickname > global display name > username.
func displayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}
