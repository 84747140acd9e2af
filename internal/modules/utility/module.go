package utility

import (
	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/modules/utility/application"
	"github.com/sglre6355/giveawaybot/internal/modules/utility/presentation"
)

func init() {
	bot.Register(&UtilityModule{})
}

// Compile-time interface checks.
var _ bot.MessageCommandModule = (*UtilityModule)(nil)

// UtilityModule provides utility commands like /ping.
type UtilityModule struct {
	pingHandler *presentation.PingHandler
}

// Name returns the module name.
func (m *UtilityModule) Name() string {
	return "utility"
}

// Commands returns the slash commands for this module.
func (m *UtilityModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Replies with the bot's latency",
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *UtilityModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ping": m.pingHandler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *UtilityModule) EventHandlers() []bot.EventHandler {
	return nil
}

// MessageCommands returns the message commands for this module.
func (m *UtilityModule) MessageCommands() []bot.MessageCommand {
	return []bot.MessageCommand{m.pingHandler.MessageCommand()}
}

// Init initializes the module.
func (m *UtilityModule) Init(deps bot.ModuleDependencies) error {
	m.pingHandler = presentation.NewPingHandler(application.NewPingInteractor(deps.Clock))
	return nil
}

// Shutdown cleans up module resources.
func (m *UtilityModule) Shutdown() error {
	return nil
}
