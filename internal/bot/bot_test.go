package bot

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestNewBot(t *testing.T) {
	cfg := &Config{
		DiscordToken: "test-token",
	}

	b := NewBot(cfg)

	if b == nil {
		t.Fatal("expected bot to be created, got nil")
	}
	if b.config != cfg {
		t.Error("expected config to be stored")
	}
	if b.router == nil || b.reactions == nil || b.messageCommands == nil {
		t.Error("expected routers to be created")
	}
}

func TestBot_InitModules_InitializesModules(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)

	initCalled := false
	trackingMod := &trackingStubModule{
		stubModule: stubModule{name: "tracking"},
		initCalled: &initCalled,
	}
	b.modules = []Module{trackingMod}

	err := b.initModules(ModuleDependencies{Config: cfg})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !initCalled {
		t.Error("expected Init to be called")
	}
}

func TestBot_InitModules_ReturnsInitError(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)

	expectedErr := errors.New("init failed")
	mod := &stubModule{
		name:    "failing",
		initErr: expectedErr,
	}
	b.modules = []Module{mod}

	err := b.initModules(ModuleDependencies{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestBot_InitModules_LoadsConfigBeforeInit(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	var calls []string
	mod := &configurableStubModule{calls: &calls}
	mod.name = "configurable"
	b.modules = []Module{mod}

	if err := b.initModules(ModuleDependencies{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(calls) != 2 || calls[0] != "config" || calls[1] != "init" {
		t.Errorf("expected [config init], got %v", calls)
	}
}

func TestBot_InitModules_ReturnsConfigError(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	expectedErr := errors.New("bad config")
	var calls []string
	mod := &configurableStubModule{calls: &calls, configErr: expectedErr}
	b.modules = []Module{mod}

	err := b.initModules(ModuleDependencies{})
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if len(calls) != 1 {
		t.Errorf("expected Init not to run, got calls %v", calls)
	}
}

func TestBot_Dependencies(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)

	deps, err := b.dependencies()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deps.Config != cfg {
		t.Error("expected config to be passed")
	}
	if deps.Router != b.router || deps.Reactions != b.reactions {
		t.Error("expected routers to be shared")
	}
	if deps.Storage == nil || deps.Cooldowns == nil || deps.Actions == nil {
		t.Error("expected storage and ledgers to be set")
	}
}

func TestBot_BuildHandlerMap(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return nil
	}

	mod := &stubModule{
		name: "test",
		handlers: map[string]InteractionHandler{
			"ping": handler,
		},
	}
	b.modules = []Module{mod}

	b.buildHandlerMap()

	if _, ok := b.handlers["ping"]; !ok {
		t.Error("expected ping handler to be registered")
	}
}

func TestBot_BuildHandlerMap_MultipleModules(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)

	handler1 := func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return nil
	}
	handler2 := func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return nil
	}

	mod1 := &stubModule{
		name: "mod1",
		handlers: map[string]InteractionHandler{
			"cmd1": handler1,
		},
	}
	mod2 := &stubModule{
		name: "mod2",
		handlers: map[string]InteractionHandler{
			"cmd2": handler2,
		},
	}
	b.modules = []Module{mod1, mod2}

	b.buildHandlerMap()

	if len(b.handlers) != 2 {
		t.Errorf("expected 2 handlers, got %d", len(b.handlers))
	}
}

func TestBot_CollectCommands(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}
	b := NewBot(cfg)

	cmd := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Ping command",
	}

	mod := &stubModule{
		name:     "test",
		commands: []*discordgo.ApplicationCommand{cmd},
	}
	b.modules = []Module{mod}

	commands := b.collectCommands()

	if len(commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(commands))
	}
	if commands[0].Name != "ping" {
		t.Errorf("expected command name %q, got %q", "ping", commands[0].Name)
	}
}

func TestBot_RegisterMessageCommands(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	mod := &messageCommandStubModule{
		commands: []MessageCommand{{Name: "ping"}, {Name: "giveaways"}},
	}
	mod.name = "mc"
	b.modules = []Module{mod, &stubModule{name: "plain"}}

	if err := b.registerMessageCommands(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"ping", "giveaways"} {
		if _, ok := b.messageCommands.Get(name); !ok {
			t.Errorf("expected message command %q to be registered", name)
		}
	}
}

func TestBot_RegisterMessageCommands_Duplicate(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	mod1 := &messageCommandStubModule{commands: []MessageCommand{{Name: "ping"}}}
	mod2 := &messageCommandStubModule{commands: []MessageCommand{{Name: "ping"}}}
	b.modules = []Module{mod1, mod2}

	if err := b.registerMessageCommands(); err == nil {
		t.Error("expected error for duplicate message command, got nil")
	}
}

func commandInteraction(name string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:   discordgo.InteractionApplicationCommand,
			Data:   discordgo.ApplicationCommandInteractionData{Name: name},
			Member: &discordgo.Member{User: &discordgo.User{ID: "42"}},
		},
	}
}

func TestBot_DispatchCommand_Unknown(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})
	r := &MockResponder{}

	b.dispatchInteraction(nil, commandInteraction("missing"), r)

	if r.LastResponse == nil {
		t.Fatal("expected a response for an unknown command")
	}
	if r.LastResponse.Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Error("expected the response to be ephemeral")
	}
}

func TestBot_DispatchCommand_HandlerError(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})
	b.handlers["boom"] = func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return errors.New("boom")
	}
	r := &MockResponder{}

	b.dispatchInteraction(nil, commandInteraction("boom"), r)

	if r.LastContent() != msgInternalError {
		t.Errorf("expected %q, got %q", msgInternalError, r.LastContent())
	}
}

func TestBot_DispatchCommand_RecoversPanic(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})
	b.handlers["panic"] = func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		panic("unexpected")
	}
	r := &MockResponder{}

	b.dispatchInteraction(nil, commandInteraction("panic"), r)

	if r.LastContent() != msgInternalError {
		t.Errorf("expected %q, got %q", msgInternalError, r.LastContent())
	}
}

func TestBot_DispatchInteraction_RoutesComponents(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	called := false
	if err := b.router.Register("btn", func(req *ComponentRequest) error {
		called = true
		return nil
	}, WithoutTimeout()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b.dispatchInteraction(nil, componentInteraction("btn_1"), &MockResponder{})

	if !called {
		t.Error("expected component handler to be called")
	}
}

// trackingStubModule is a stub that tracks if Init was called
type trackingStubModule struct {
	stubModule
	initCalled *bool
}

func (m *trackingStubModule) Init(deps ModuleDependencies) error {
	*m.initCalled = true
	return m.stubModule.Init(deps)
}

// configurableStubModule records the order of LoadConfig and Init calls.
type configurableStubModule struct {
	stubModule
	calls     *[]string
	configErr error
}

func (m *configurableStubModule) LoadConfig() error {
	*m.calls = append(*m.calls, "config")
	return m.configErr
}

func (m *configurableStubModule) Init(deps ModuleDependencies) error {
	*m.calls = append(*m.calls, "init")
	return nil
}

type messageCommandStubModule struct {
	stubModule
	commands []MessageCommand
}

func (m *messageCommandStubModule) MessageCommands() []MessageCommand {
	return m.commands
}
