package bot

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrUnknownCommand is returned when invoking a command that is not registered.
	ErrUnknownCommand = errors.New("unknown message command")

	// ErrCommandDenied is returned when the author may not run the command.
	ErrCommandDenied = errors.New("message command not permitted")
)

// MessageCommand is a command entry point triggered by a chat message rather
// than a slash command.
type MessageCommand struct {
	Name                string
	Description         string
	DevOnly             bool
	TestGuildOnly       bool
	RequiredPermissions int64
	Run                 func(s *discordgo.Session, m *discordgo.MessageCreate) error
}

// PermissionsFunc returns the permissions a user holds in a channel.
type PermissionsFunc func(s *discordgo.Session, userID, channelID string) (int64, error)

// MessageCommandRegistry holds message-triggered commands.
type MessageCommandRegistry struct {
	mu          sync.RWMutex
	commands    map[string]MessageCommand
	devUserIDs  []string
	testGuildID string
	permissions PermissionsFunc
}

// NewMessageCommandRegistry creates a MessageCommandRegistry.
func NewMessageCommandRegistry(devUserIDs []string, testGuildID string) *MessageCommandRegistry {
	return &MessageCommandRegistry{
		commands:    make(map[string]MessageCommand),
		devUserIDs:  devUserIDs,
		testGuildID: testGuildID,
		permissions: statePermissions,
	}
}

// SetPermissionsFunc replaces how author permissions are resolved.
func (r *MessageCommandRegistry) SetPermissionsFunc(fn PermissionsFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permissions = fn
}

func statePermissions(s *discordgo.Session, userID, channelID string) (int64, error) {
	if s == nil || s.State == nil {
		return 0, errors.New("no session state")
	}
	return s.State.UserChannelPermissions(userID, channelID)
}

// Register adds a command. Names must be unique.
func (r *MessageCommandRegistry) Register(cmd MessageCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.Name]; exists {
		return fmt.Errorf("message command %q already registered", cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	return nil
}

// Get returns the command registered under name.
func (r *MessageCommandRegistry) Get(name string) (MessageCommand, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Allowed reports whether a user with perms in guildID may run cmd.
func (r *MessageCommandRegistry) Allowed(cmd MessageCommand, userID, guildID string, perms int64) bool {
	if cmd.DevOnly && !slices.Contains(r.devUserIDs, userID) {
		return false
	}
	if cmd.TestGuildOnly && (r.testGuildID == "" || guildID != r.testGuildID) {
		return false
	}
	if cmd.RequiredPermissions != 0 && perms&cmd.RequiredPermissions != cmd.RequiredPermissions {
		return false
	}
	return true
}

// Invoke runs the named command for m after checking its permission predicate.
func (r *MessageCommandRegistry) Invoke(s *discordgo.Session, m *discordgo.MessageCreate, name string) error {
	cmd, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	r.mu.RLock()
	permsFn := r.permissions
	r.mu.RUnlock()

	var perms int64
	if cmd.RequiredPermissions != 0 {
		p, err := permsFn(s, m.Author.ID, m.ChannelID)
		if err != nil {
			return fmt.Errorf("failed to resolve permissions: %w", err)
		}
		perms = p
	}

	if !r.Allowed(cmd, m.Author.ID, m.GuildID, perms) {
		return fmt.Errorf("%w: %s", ErrCommandDenied, name)
	}

	return cmd.Run(s, m)
}
