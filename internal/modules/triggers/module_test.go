package triggers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/limits"
	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

func TestLoadConfig(t *testing.T) {
	m := &TriggersModule{}
	require.NoError(t, m.LoadConfig())
	assert.Equal(t, "./config/triggers", m.config.Dir)
	assert.InDelta(t, 5.0, m.config.SendRate, 0)
	assert.Equal(t, 10, m.config.SendBurst)

	t.Setenv("TRIGGERS_SEND_BURST", "many")
	assert.Error(t, (&TriggersModule{}).LoadConfig())
}

func TestTriggersModule_Init(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.json"), []byte(`{"rules": []}`), 0o644))
	t.Setenv("TRIGGERS_DIR", dir)

	clock := scheduler.SystemClock{}
	m := &TriggersModule{}
	require.NoError(t, m.LoadConfig())
	require.NoError(t, m.Init(bot.ModuleDependencies{
		MessageCommands: bot.NewMessageCommandRegistry(nil, ""),
		Cooldowns:       limits.NewCooldownLedger(clock),
		Actions:         limits.NewActionLedger(limits.NewMemoryActionStore(), clock),
	}))

	assert.Equal(t, "triggers", m.Name())
	assert.Empty(t, m.Commands())
	assert.Len(t, m.EventHandlers(), 1)
	assert.NoError(t, m.Shutdown())
}
