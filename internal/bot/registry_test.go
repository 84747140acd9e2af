package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// stubModule is a test double for Module
type stubModule struct {
	name          string
	commands      []*discordgo.ApplicationCommand
	handlers      map[string]InteractionHandler
	eventHandlers []EventHandler
	initErr       error
	shutErr       error
}

func (m *stubModule) Name() string                                   { return m.name }
func (m *stubModule) Commands() []*discordgo.ApplicationCommand      { return m.commands }
func (m *stubModule) CommandHandlers() map[string]InteractionHandler { return m.handlers }
func (m *stubModule) EventHandlers() []EventHandler                  { return m.eventHandlers }
func (m *stubModule) Init(deps ModuleDependencies) error             { return m.initErr }
func (m *stubModule) Shutdown() error                                { return m.shutErr }

func moduleNames(mods []Module) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name()
	}
	return names
}

func TestRegistry_KeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubModule{name: "giveaway"})
	reg.Register(&stubModule{name: "triggers"})
	reg.Register(&stubModule{name: "utility"})

	got := moduleNames(reg.Modules())
	want := []string{"giveaway", "triggers", "utility"}
	if len(got) != len(want) {
		t.Fatalf("expected %d modules, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected module %d to be %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRegistry_SameNameReplaces(t *testing.T) {
	reg := NewRegistry()
	first := &stubModule{name: "giveaway"}
	second := &stubModule{name: "giveaway"}
	reg.Register(first)
	reg.Register(&stubModule{name: "utility"})
	reg.Register(second)

	mods := reg.Modules()
	if len(mods) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(mods))
	}
	if mods[0] != second {
		t.Error("expected the later registration to replace the earlier one in place")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry()
	mod := &stubModule{name: "triggers"}
	reg.Register(mod)

	got, ok := reg.Lookup("triggers")
	if !ok || got != mod {
		t.Fatalf("expected to find triggers module, got %v, %v", got, ok)
	}
	if _, ok := reg.Lookup("music"); ok {
		t.Error("expected unknown module lookup to fail")
	}
}

func TestRegistry_Enabled(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubModule{name: "giveaway"})
	reg.Register(&stubModule{name: "triggers"})
	reg.Register(&stubModule{name: "utility"})

	got := moduleNames(reg.Enabled([]string{"triggers", "unknown"}))
	if len(got) != 2 || got[0] != "giveaway" || got[1] != "utility" {
		t.Errorf("expected [giveaway utility], got %v", got)
	}

	if n := len(reg.Enabled(nil)); n != 3 {
		t.Errorf("expected 3 modules with nothing disabled, got %d", n)
	}
}

func TestRegistry_ModulesReturnsSnapshot(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubModule{name: "giveaway"})

	modules := reg.Modules()
	reg.Register(&stubModule{name: "utility"})

	if len(modules) != 1 {
		t.Errorf("expected snapshot to have 1 module, got %d", len(modules))
	}
}

func TestGlobalRegistry(t *testing.T) {
	ResetGlobalRegistry()
	defer ResetGlobalRegistry()

	Register(&stubModule{name: "giveaway"})
	Register(&stubModule{name: "utility"})

	if n := len(Modules()); n != 2 {
		t.Fatalf("expected 2 modules, got %d", n)
	}
	got := moduleNames(EnabledModules([]string{"utility"}))
	if len(got) != 1 || got[0] != "giveaway" {
		t.Errorf("expected [giveaway], got %v", got)
	}
}
