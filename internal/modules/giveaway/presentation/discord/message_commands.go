package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// maxSummaryEntries bounds the giveaways shown by the giveaways message command.
const maxSummaryEntries = 10

// MessageCommands returns the message-triggered entry points of the module.
func (h *Handlers) MessageCommands() []bot.MessageCommand {
	return []bot.MessageCommand{
		{
			Name:        "giveaways",
			Description: "List the active giveaways of this server",
			Run:         h.runGiveaways,
		},
	}
}

func (h *Handlers) runGiveaways(s *discordgo.Session, m *discordgo.MessageCreate) error {
	guildID, err := snowflake.Parse(m.GuildID)
	if err != nil {
		return fmt.Errorf("invalid guild id %q: %w", m.GuildID, err)
	}

	giveaways, err := h.engine.List(context.Background(), guildID, true)
	if err != nil {
		return err
	}

	_, err = s.ChannelMessageSendEmbed(m.ChannelID, activeSummary(giveaways))
	return err
}

// activeSummary renders a short public overview of active giveaways.
func activeSummary(giveaways []*domain.Giveaway) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Active giveaways",
		Color: colorSuccess,
	}
	if len(giveaways) == 0 {
		embed.Description = "There are no active giveaways right now."
		return embed
	}

	var b strings.Builder
	for i, g := range giveaways {
		if i == maxSummaryEntries {
			fmt.Fprintf(&b, "…and %d more", len(giveaways)-maxSummaryEntries)
			break
		}
		link := fmt.Sprintf("https://discord.com/channels/%d/%d/%d", g.GuildID, g.ChannelID, g.MessageID)
		fmt.Fprintf(&b, "**[%s](%s)** · %s · ends %s\n", g.Title, link, g.Prize, timestamp(g.EndTime, "R"))
	}
	embed.Description = b.String()
	return embed
}
