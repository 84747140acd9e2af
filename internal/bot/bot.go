package bot

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/giveawaybot/internal/limits"
	"github.com/sglre6355/giveawaybot/internal/scheduler"
	"github.com/sglre6355/giveawaybot/internal/storage"
)

// Intents requested from the gateway.
const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsMessageContent

// Bot manages the Discord bot lifecycle and module coordination.
type Bot struct {
	config   *Config
	session  *discordgo.Session
	modules  []Module
	handlers map[string]InteractionHandler

	router          *InteractionRouter
	reactions       *ReactionRouter
	messageCommands *MessageCommandRegistry

	clock     scheduler.Clock
	scheduler *scheduler.TimerScheduler
	storage   *storage.Backend
}

// NewBot creates a new Bot instance with the given configuration.
func NewBot(cfg *Config) *Bot {
	clock := scheduler.SystemClock{}
	return &Bot{
		config:          cfg,
		modules:         make([]Module, 0),
		handlers:        make(map[string]InteractionHandler),
		router:          NewInteractionRouter(),
		reactions:       NewReactionRouter(clock, nil),
		messageCommands: NewMessageCommandRegistry(cfg.DevUserIDs, cfg.TestGuildID),
		clock:           clock,
		scheduler:       scheduler.NewTimerScheduler(clock),
	}
}

// LoadModules loads the enabled modules from the global registry.
func (b *Bot) LoadModules() {
	b.modules = EnabledModules(b.config.DisabledModules)
}

// Start initializes the bot, connects to Discord, and registers commands.
func (b *Bot) Start() error {
	// Create Discord session
	session, err := discordgo.New("Bot " + b.config.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = intents
	b.session = session

	b.reactions.SetUserLookup(func(userID string) (*discordgo.User, error) {
		return session.User(userID)
	})

	// Open storage
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	backend, err := storage.Open(ctx, b.config.StorageConfig())
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	b.storage = backend

	deps, err := b.dependencies()
	if err != nil {
		return err
	}

	// Initialize modules
	if err := b.initModules(deps); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}

	if err := b.registerMessageCommands(); err != nil {
		return err
	}

	// Build handler map
	b.buildHandlerMap()

	// Register interaction and reaction handlers
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.reactions.HandleReactionAdd)

	// Register module event handlers
	b.registerEventHandlers()

	// Open connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Register commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.notifyReady()

	slog.Info("started bot",
		"user_id", b.session.State.User.ID,
		"username", b.session.State.User.Username,
	)

	return nil
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() error {
	// Shutdown modules
	for _, mod := range b.modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}

	b.scheduler.Stop()

	if b.storage != nil {
		if err := b.storage.Close(); err != nil {
			slog.Warn("failed to close storage", "error", err)
		}
	}

	// Close Discord session
	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

// dependencies builds the shared collaborators handed to every module.
func (b *Bot) dependencies() (ModuleDependencies, error) {
	backend := b.storage
	if backend == nil {
		backend = storage.Memory()
	}

	actionStore, err := limits.NewActionStore(backend)
	if err != nil {
		return ModuleDependencies{}, fmt.Errorf("failed to create action store: %w", err)
	}

	return ModuleDependencies{
		Config:          b.config,
		Session:         b.session,
		Router:          b.router,
		Reactions:       b.reactions,
		MessageCommands: b.messageCommands,
		Storage:         backend,
		Scheduler:       b.scheduler,
		Clock:           b.clock,
		Cooldowns:       limits.NewCooldownLedger(b.clock),
		Actions:         limits.NewActionLedger(actionStore, b.clock),
	}, nil
}

// initModules loads module configuration and initializes all loaded modules.
func (b *Bot) initModules(deps ModuleDependencies) error {
	for _, mod := range b.modules {
		if cm, ok := mod.(ConfigurableModule); ok {
			if err := cm.LoadConfig(); err != nil {
				return fmt.Errorf("failed to load %s module config: %w", mod.Name(), err)
			}
		}
	}

	for _, mod := range b.modules {
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		slog.Debug("initialized module", "module", mod.Name())
	}

	moduleNames := make([]string, len(b.modules))
	for i, mod := range b.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// registerMessageCommands collects message commands from modules.
func (b *Bot) registerMessageCommands() error {
	for _, mod := range b.modules {
		mcm, ok := mod.(MessageCommandModule)
		if !ok {
			continue
		}
		for _, cmd := range mcm.MessageCommands() {
			if err := b.messageCommands.Register(cmd); err != nil {
				return fmt.Errorf("failed to register %s message command: %w", mod.Name(), err)
			}
			slog.Debug("registered message command", "command", cmd.Name, "module", mod.Name())
		}
	}
	return nil
}

// buildHandlerMap builds the command name to handler mapping.
func (b *Bot) buildHandlerMap() {
	for _, mod := range b.modules {
		maps.Copy(b.handlers, mod.CommandHandlers())
	}
}

// registerEventHandlers registers all module event handlers with the session.
func (b *Bot) registerEventHandlers() {
	for _, mod := range b.modules {
		for _, handler := range mod.EventHandlers() {
			b.session.AddHandler(handler)
		}
	}
}

// collectCommands gathers all commands from loaded modules.
func (b *Bot) collectCommands() []*discordgo.ApplicationCommand {
	var commands []*discordgo.ApplicationCommand
	for _, mod := range b.modules {
		commands = append(commands, mod.Commands()...)
	}
	return commands
}

// registerCommands registers all module commands with Discord.
// Commands go to the test guild when one is configured, otherwise globally.
func (b *Bot) registerCommands() error {
	commands := b.collectCommands()

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			b.config.TestGuildID,
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		slog.Debug("registered command", "command", cmd.Name, "guild", b.config.TestGuildID)
	}

	return nil
}

// notifyReady calls OnReady on modules that implement ReadyModule.
func (b *Bot) notifyReady() {
	for _, mod := range b.modules {
		rm, ok := mod.(ReadyModule)
		if !ok {
			continue
		}
		if err := rm.OnReady(b.session); err != nil {
			slog.Error("failed to run ready hook", "module", mod.Name(), "error", err)
		}
	}
}

// handleInteraction routes incoming interactions to the appropriate handler.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.dispatchInteraction(s, i, NewDiscordResponder(s, i.Interaction))
}

func (b *Bot) dispatchInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.dispatchCommand(s, i, r)
	case discordgo.InteractionMessageComponent, discordgo.InteractionModalSubmit:
		b.router.Dispatch(s, i, r)
	}
}

func (b *Bot) dispatchCommand(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) {
	cmdName := i.ApplicationCommandData().Name
	handler, ok := b.handlers[cmdName]
	if !ok {
		slog.Warn("found no handler for command", "command", cmdName)
		if err := r.Respond(Ephemeral("This command is not recognized.")); err != nil {
			slog.Error("failed to send response", "error", err)
		}
		return
	}

	if err := runCommand(handler, s, i, r); err != nil {
		slog.Error("failed to handle command",
			"command", cmdName,
			"user", interactionUserID(i.Interaction),
			"error", err,
		)
		notifyFailure(r, msgInternalError)
	}
}

func runCommand(h InteractionHandler, s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panicked: %v", rec)
		}
	}()
	return h(s, i, r)
}
