package infrastructure

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/sglre6355/giveawaybot/internal/modules/triggers/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/triggers/domain"
)

// Ensure DiscordMessenger implements ports.Messenger.
var _ ports.Messenger = (*DiscordMessenger)(nil)

// MessageAPI is the subset of the Discord REST API used by trigger actions.
// *discordgo.Session satisfies it.
type MessageAPI interface {
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	ChannelMessageSendComplex(
		channelID string,
		data *discordgo.MessageSend,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// CommandInvoker runs message commands. *bot.MessageCommandRegistry satisfies it.
type CommandInvoker interface {
	Invoke(s *discordgo.Session, m *discordgo.MessageCreate, name string) error
}

// DiscordMessenger performs trigger actions through the Discord REST API.
// Every outbound call waits on a shared rate limiter.
type DiscordMessenger struct {
	api      MessageAPI
	commands CommandInvoker
	limiter  *rate.Limiter
}

// NewDiscordMessenger creates a DiscordMessenger sending at most perSecond
// requests per second with the given burst.
func NewDiscordMessenger(api MessageAPI, commands CommandInvoker, perSecond float64, burst int) *DiscordMessenger {
	return &DiscordMessenger{
		api:      api,
		commands: commands,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// React adds item as a reaction to msg.
func (m *DiscordMessenger) React(ctx context.Context, msg domain.Message, item string) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}
	return m.api.MessageReactionAdd(msg.ChannelID, msg.ID, domain.ReactionName(item), discordgo.WithContext(ctx))
}

// Reply answers msg, mentioning only its author.
func (m *DiscordMessenger) Reply(ctx context.Context, msg domain.Message, content string) error {
	return m.send(ctx, msg, &discordgo.MessageSend{
		Content: content,
		Reference: &discordgo.MessageReference{
			MessageID: msg.ID,
			ChannelID: msg.ChannelID,
			GuildID:   msg.GuildID,
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{msg.AuthorID}},
	})
}

// Send posts content to the channel of msg, mentioning only its author.
func (m *DiscordMessenger) Send(ctx context.Context, msg domain.Message, content string) error {
	return m.send(ctx, msg, &discordgo.MessageSend{
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{msg.AuthorID}},
	})
}

func (m *DiscordMessenger) send(ctx context.Context, msg domain.Message, data *discordgo.MessageSend) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := m.api.ChannelMessageSendComplex(msg.ChannelID, data, discordgo.WithContext(ctx))
	return err
}

// RunCommand runs the named message command through the registry, which
// checks the command's own permission predicate.
func (m *DiscordMessenger) RunCommand(_ context.Context, msg domain.Message, name string) error {
	session, _ := m.api.(*discordgo.Session)
	return m.commands.Invoke(session, &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ID:        msg.ID,
			GuildID:   msg.GuildID,
			ChannelID: msg.ChannelID,
			Content:   msg.Content,
			Author:    &discordgo.User{ID: msg.AuthorID, Bot: msg.AuthorBot},
		},
	}, name)
}
