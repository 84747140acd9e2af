package ports

import (
	"context"

	"github.com/sglre6355/giveawaybot/internal/modules/triggers/domain"
)

// RuleSource provides rule definitions and the lists they reference.
type RuleSource interface {
	// Rules returns every configured rule.
	Rules(ctx context.Context) ([]domain.Rule, error)

	// List returns the entries of the named list document.
	List(ctx context.Context, name string) ([]string, error)
}

// Messenger performs rule actions on the chat platform.
type Messenger interface {
	// React adds item as a reaction to msg.
	React(ctx context.Context, msg domain.Message, item string) error

	// Reply answers msg with a message referencing it.
	Reply(ctx context.Context, msg domain.Message, content string) error

	// Send posts content to the channel of msg.
	Send(ctx context.Context, msg domain.Message, content string) error

	// RunCommand runs the named message command for msg. The command's own
	// permission predicate is checked again.
	RunCommand(ctx context.Context, msg domain.Message, name string) error
}
