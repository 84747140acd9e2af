package discord

import "github.com/bwmarrin/discordgo"

const (
	commandGiveaway = "giveaway"

	subcommandCreate = "create"
	subcommandList   = "list"
	subcommandFinish = "finish"
	subcommandCancel = "cancel"

	optionActiveOnly = "active_only"
	optionID         = "id"
)

// Commands returns the slash command definitions for the giveaway module.
func Commands() []*discordgo.ApplicationCommand {
	manageGuild := int64(discordgo.PermissionManageGuild)
	dmPermission := false

	return []*discordgo.ApplicationCommand{
		{
			Name:                     commandGiveaway,
			Description:              "Run giveaways",
			DefaultMemberPermissions: &manageGuild,
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandCreate,
					Description: "Set up and start a new giveaway in this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandList,
					Description: "List this server's giveaways",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        optionActiveOnly,
							Description: "Only show giveaways that are still running",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandFinish,
					Description: "End a giveaway now and draw its winners",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optionID,
							Description: "Giveaway ID (shown in the announcement footer)",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandCancel,
					Description: "Cancel a giveaway without drawing winners",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optionID,
							Description: "Giveaway ID (shown in the announcement footer)",
							Required:    true,
						},
					},
				},
			},
		},
	}
}
