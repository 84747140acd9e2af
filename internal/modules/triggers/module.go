package triggers

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/modules/triggers/application/usecases"
	"github.com/sglre6355/giveawaybot/internal/modules/triggers/infrastructure"
	"github.com/sglre6355/giveawaybot/internal/modules/triggers/presentation/discord"
)

func init() {
	bot.Register(&TriggersModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*TriggersModule)(nil)

// TriggersModule answers chat messages according to configured trigger rules.
type TriggersModule struct {
	config  *Config
	handler *discord.MessageHandler
}

// Name returns the module name.
func (m *TriggersModule) Name() string {
	return "triggers"
}

// Commands returns the slash commands for this module.
func (m *TriggersModule) Commands() []*discordgo.ApplicationCommand {
	return nil
}

// CommandHandlers returns the command handlers for this module.
func (m *TriggersModule) CommandHandlers() map[string]bot.InteractionHandler {
	return nil
}

// EventHandlers returns the event handlers for this module.
func (m *TriggersModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.handler.HandleMessage,
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *TriggersModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *TriggersModule) Init(deps bot.ModuleDependencies) error {
	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}

	var api infrastructure.MessageAPI
	if deps.Session != nil {
		api = deps.Session
	} else {
		slog.Warn("triggers module initialized without session, actions disabled")
	}

	source := infrastructure.NewFileSource(m.config.Dir)
	engine := usecases.NewEngine(
		source,
		deps.Cooldowns,
		deps.Actions,
		infrastructure.NewDiscordMessenger(api, deps.MessageCommands, m.config.SendRate, m.config.SendBurst),
	)
	m.handler = discord.NewMessageHandler(engine)

	rules, err := source.Rules(context.Background())
	if err != nil {
		slog.Warn("failed to load trigger rules", "dir", m.config.Dir, "error", err)
	}
	slog.Info("triggers module initialized", "dir", m.config.Dir, "rules", len(rules))

	return nil
}

// Shutdown cleans up module resources.
func (m *TriggersModule) Shutdown() error {
	return nil
}
