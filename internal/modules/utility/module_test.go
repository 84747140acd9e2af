package utility

import (
	"testing"

	"github.com/sglre6355/giveawaybot/internal/bot"
)

func TestUtilityModule(t *testing.T) {
	m := &UtilityModule{}
	if err := m.Init(bot.ModuleDependencies{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Name() != "utility" {
		t.Errorf("expected name %q, got %q", "utility", m.Name())
	}

	commands := m.Commands()
	if len(commands) != 1 || commands[0].Name != "ping" {
		t.Fatalf("expected the ping command, got %v", commands)
	}
	if _, ok := m.CommandHandlers()["ping"]; !ok {
		t.Error("expected a handler for ping")
	}

	messageCommands := m.MessageCommands()
	if len(messageCommands) != 1 || messageCommands[0].Name != "ping" {
		t.Errorf("expected the ping message command, got %d commands", len(messageCommands))
	}

	if err := m.Shutdown(); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}
