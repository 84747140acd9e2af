package giveaway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/sho0pi/naturaltime"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/usecases"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/infrastructure"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/presentation/discord"
	"github.com/sglre6355/giveawaybot/internal/storage"
)

func init() {
	bot.Register(&GiveawayModule{})
}

// Compile-time interface checks.
var (
	_ bot.ConfigurableModule   = (*GiveawayModule)(nil)
	_ bot.ReadyModule          = (*GiveawayModule)(nil)
	_ bot.MessageCommandModule = (*GiveawayModule)(nil)
)

// recoveryTimeout bounds the startup sweep over persisted giveaways.
const recoveryTimeout = time.Minute

// GiveawayModule runs giveaways: the setup wizard, entry, timed termination
// and result claims.
type GiveawayModule struct {
	config   *Config
	engine   *usecases.Engine
	handlers *discord.Handlers
}

// Name returns the module name.
func (m *GiveawayModule) Name() string {
	return "giveaway"
}

// Commands returns the slash commands for this module.
func (m *GiveawayModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *GiveawayModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"giveaway": m.handlers.HandleGiveaway,
	}
}

// EventHandlers returns the event handlers for this module.
// Reactions reach the module through the shared reaction router.
func (m *GiveawayModule) EventHandlers() []bot.EventHandler {
	return nil
}

// MessageCommands returns the message commands for this module.
func (m *GiveawayModule) MessageCommands() []bot.MessageCommand {
	return m.handlers.MessageCommands()
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *GiveawayModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *GiveawayModule) Init(deps bot.ModuleDependencies) error {
	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}

	backend := deps.Storage
	if backend == nil {
		backend = storage.Memory()
	}
	repo, attempts, err := infrastructure.NewStores(backend)
	if err != nil {
		return fmt.Errorf("failed to create giveaway stores: %w", err)
	}

	var (
		client discord.MessageClient
		users  ports.UserResolver
	)
	if deps.Session != nil {
		client = deps.Session
		users = infrastructure.NewDiscordUserResolver(deps.Session)
	} else {
		slog.Warn("giveaway module initialized without session, announcements disabled")
	}

	m.engine = usecases.NewEngine(
		repo,
		attempts,
		discord.NewAnnouncer(client),
		infrastructure.NewReactionCampaigns(deps.Reactions),
		users,
		deps.Scheduler,
		deps.Clock,
		usecases.WithLimits(m.config.Limits()),
	)

	natural, err := naturaltime.New()
	if err != nil {
		return fmt.Errorf("failed to create natural time parser: %w", err)
	}
	wizard := usecases.NewWizard(
		usecases.NewSessionStore(deps.Clock),
		usecases.NewDurationParser(natural, deps.Clock),
		m.engine,
	)

	m.handlers = discord.NewHandlers(m.engine, wizard, deps.Clock, m.config.ListPageSize)
	if err := m.handlers.Register(deps.Router); err != nil {
		return err
	}

	slog.Info("giveaway module initialized", "storage", backend.Kind)

	return nil
}

// OnReady restores giveaways persisted by a previous run.
func (m *GiveawayModule) OnReady(_ *discordgo.Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), recoveryTimeout)
	defer cancel()

	if _, err := m.engine.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover giveaways: %w", err)
	}
	return nil
}

// Shutdown cleans up module resources. Pending end timers belong to the
// shared scheduler and are recovered on the next start.
func (m *GiveawayModule) Shutdown() error {
	return nil
}
