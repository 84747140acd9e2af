package bot

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func messageFrom(userID, guildID string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ChannelID: "c1",
			GuildID:   guildID,
			Author:    &discordgo.User{ID: userID},
		},
	}
}

func TestMessageCommandRegistry_Allowed(t *testing.T) {
	r := NewMessageCommandRegistry([]string{"dev"}, "testguild")

	tests := []struct {
		name     string
		cmd      MessageCommand
		userID   string
		guildID  string
		perms    int64
		expected bool
	}{
		{"open", MessageCommand{}, "u", "g", 0, true},
		{"dev only as dev", MessageCommand{DevOnly: true}, "dev", "g", 0, true},
		{"dev only as user", MessageCommand{DevOnly: true}, "u", "g", 0, false},
		{"test guild", MessageCommand{TestGuildOnly: true}, "u", "testguild", 0, true},
		{"other guild", MessageCommand{TestGuildOnly: true}, "u", "g", 0, false},
		{
			"has permission",
			MessageCommand{RequiredPermissions: discordgo.PermissionManageGuild},
			"u", "g", discordgo.PermissionManageGuild, true,
		},
		{
			"missing permission",
			MessageCommand{RequiredPermissions: discordgo.PermissionManageGuild},
			"u", "g", 0, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Allowed(tt.cmd, tt.userID, tt.guildID, tt.perms); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestMessageCommandRegistry_Invoke(t *testing.T) {
	r := NewMessageCommandRegistry(nil, "")
	ran := false
	err := r.Register(MessageCommand{
		Name: "ping",
		Run: func(s *discordgo.Session, m *discordgo.MessageCreate) error {
			ran = true
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Invoke(nil, messageFrom("u", "g"), "ping"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("expected command to run")
	}
}

func TestMessageCommandRegistry_InvokeUnknown(t *testing.T) {
	r := NewMessageCommandRegistry(nil, "")

	err := r.Invoke(nil, messageFrom("u", "g"), "missing")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestMessageCommandRegistry_InvokeChecksPermissions(t *testing.T) {
	r := NewMessageCommandRegistry(nil, "")
	r.SetPermissionsFunc(func(_ *discordgo.Session, userID, channelID string) (int64, error) {
		if userID == "mod" {
			return discordgo.PermissionManageGuild, nil
		}
		return 0, nil
	})

	ran := 0
	_ = r.Register(MessageCommand{
		Name:                "giveaways",
		RequiredPermissions: discordgo.PermissionManageGuild,
		Run: func(s *discordgo.Session, m *discordgo.MessageCreate) error {
			ran++
			return nil
		},
	})

	if err := r.Invoke(nil, messageFrom("user", "g"), "giveaways"); !errors.Is(err, ErrCommandDenied) {
		t.Errorf("expected ErrCommandDenied, got %v", err)
	}
	if err := r.Invoke(nil, messageFrom("mod", "g"), "giveaways"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if ran != 1 {
		t.Errorf("expected 1 run, got %d", ran)
	}
}

func TestMessageCommandRegistry_DuplicateName(t *testing.T) {
	r := NewMessageCommandRegistry(nil, "")
	_ = r.Register(MessageCommand{Name: "ping"})

	if err := r.Register(MessageCommand{Name: "ping"}); err == nil {
		t.Error("expected error for duplicate name, got nil")
	}
}
