package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// ErrNoClient is returned by every Announcer call when no Discord client is configured.
var ErrNoClient = errors.New("no discord client configured")

// Ensure Announcer implements ports.Announcer.
var _ ports.Announcer = (*Announcer)(nil)

// MessageClient is the subset of the Discord REST API used to announce
// giveaways. *discordgo.Session satisfies it.
type MessageClient interface {
	ChannelMessageSendComplex(
		channelID string,
		data *discordgo.MessageSend,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	ChannelMessageEditComplex(
		m *discordgo.MessageEdit,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Announcer publishes giveaways to their channel.
type Announcer struct {
	client MessageClient
}

// NewAnnouncer creates a new Announcer.
func NewAnnouncer(client MessageClient) *Announcer {
	return &Announcer{client: client}
}

// Announce posts the announcement and returns its message id.
func (a *Announcer) Announce(ctx context.Context, g *domain.Giveaway) (snowflake.ID, error) {
	if a.client == nil {
		return 0, ErrNoClient
	}
	msg, err := a.client.ChannelMessageSendComplex(
		g.ChannelID.String(),
		&discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{announcementEmbed(g)},
			Components: entryComponents(g, false),
		},
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return 0, err
	}
	return snowflake.Parse(msg.ID)
}

// AddReaction adds the entry emoji to the announcement.
func (a *Announcer) AddReaction(ctx context.Context, g *domain.Giveaway) error {
	if a.client == nil {
		return ErrNoClient
	}
	if g.Entry.Reaction == nil {
		return fmt.Errorf("giveaway %s has no entry emoji", g.ID)
	}
	return a.client.MessageReactionAdd(
		g.ChannelID.String(),
		g.MessageID.String(),
		g.Entry.Reaction.APIName(),
		discordgo.WithContext(ctx),
	)
}

// AnnounceResults posts the winners as a reply to the announcement.
func (a *Announcer) AnnounceResults(ctx context.Context, g *domain.Giveaway, _ []ports.ResolvedUser) error {
	if a.client == nil {
		return ErrNoClient
	}
	users := make([]string, len(g.Winners))
	for i, id := range g.Winners {
		users[i] = id.String()
	}

	send := &discordgo.MessageSend{
		Content:    resultsContent(g),
		Components: claimComponents(g),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: users,
		},
	}
	if g.MessageID != 0 {
		send.Reference = &discordgo.MessageReference{
			MessageID: g.MessageID.String(),
			ChannelID: g.ChannelID.String(),
		}
	}

	_, err := a.client.ChannelMessageSendComplex(g.ChannelID.String(), send, discordgo.WithContext(ctx))
	return err
}

// MarkEnded edits the announcement into its ended state.
func (a *Announcer) MarkEnded(ctx context.Context, g *domain.Giveaway, winners []ports.ResolvedUser) error {
	return a.edit(ctx, g, endedEmbed(g, winners))
}

// MarkCancelled edits the announcement into its cancelled state.
func (a *Announcer) MarkCancelled(ctx context.Context, g *domain.Giveaway) error {
	return a.edit(ctx, g, endedEmbed(g, nil))
}

// Retract deletes the announcement.
func (a *Announcer) Retract(ctx context.Context, g *domain.Giveaway) error {
	if a.client == nil {
		return ErrNoClient
	}
	if g.MessageID == 0 {
		return nil
	}
	return a.client.ChannelMessageDelete(g.ChannelID.String(), g.MessageID.String(), discordgo.WithContext(ctx))
}

func (a *Announcer) edit(ctx context.Context, g *domain.Giveaway, embed *discordgo.MessageEmbed) error {
	if a.client == nil {
		return ErrNoClient
	}
	if g.MessageID == 0 {
		return nil
	}

	embeds := []*discordgo.MessageEmbed{embed}
	components := entryComponents(g, true)

	_, err := a.client.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         g.MessageID.String(),
		Channel:    g.ChannelID.String(),
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return err
}
