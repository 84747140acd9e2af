package domain

import (
	"fmt"
	"strings"

	"github.com/sglre6355/giveawaybot/internal/emoji"
)

// EntryKind identifies how users enter a giveaway.
type EntryKind string

const (
	EntryButton   EntryKind = "button"
	EntryReaction EntryKind = "reaction"
	EntryTrivia   EntryKind = "trivia"
)

// UnlimitedAttempts disables the trivia attempt limit.
const UnlimitedAttempts = -1

// ParseEntryKind parses a kind name.
func ParseEntryKind(s string) (EntryKind, error) {
	switch k := EntryKind(strings.ToLower(strings.TrimSpace(s))); k {
	case EntryButton, EntryReaction, EntryTrivia:
		return k, nil
	default:
		return "", fmt.Errorf("unknown entry mode %q", s)
	}
}

// ReactionEntry configures reaction-based entry.
type ReactionEntry struct {
	// Identifier is matched against reactions: a custom emoji id or a unicode emoji.
	Identifier string `json:"identifier"`

	// Display is how the emoji is rendered in messages.
	Display string `json:"display"`
}

// APIName returns the form the REST API expects when adding the reaction:
// "name:id" for custom emoji, the emoji itself otherwise.
func (r ReactionEntry) APIName() string {
	if c, ok := emoji.ParseCustom(r.Display); ok {
		return c.APIName()
	}
	return r.Identifier
}

// TriviaEntry configures trivia-based entry.
type TriviaEntry struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	MaxAttempts int    `json:"max_attempts"`
}

// Unlimited reports whether attempts are unlimited.
func (t TriviaEntry) Unlimited() bool {
	return t.MaxAttempts == UnlimitedAttempts
}

// Matches reports whether answer is correct, ignoring case and surrounding space.
func (t TriviaEntry) Matches(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(t.Answer))
}

// EntryMode is a tagged union over the entry kinds. Only the variant matching
// Kind is set.
type EntryMode struct {
	Kind     EntryKind      `json:"kind"`
	Reaction *ReactionEntry `json:"reaction,omitempty"`
	Trivia   *TriviaEntry   `json:"trivia,omitempty"`
}

// ButtonMode returns a button entry mode.
func ButtonMode() EntryMode {
	return EntryMode{Kind: EntryButton}
}

// ReactionMode returns a reaction entry mode.
func ReactionMode(r ReactionEntry) EntryMode {
	return EntryMode{Kind: EntryReaction, Reaction: &r}
}

// TriviaMode returns a trivia entry mode.
func TriviaMode(t TriviaEntry) EntryMode {
	return EntryMode{Kind: EntryTrivia, Trivia: &t}
}

// Label returns a human-readable name for the kind.
func (m EntryMode) Label() string {
	switch m.Kind {
	case EntryButton:
		return "Button"
	case EntryReaction:
		return "Reaction"
	case EntryTrivia:
		return "Trivia"
	default:
		return "Unknown"
	}
}

// Problems lists what is missing for the mode to be usable.
func (m EntryMode) Problems() []string {
	switch m.Kind {
	case EntryButton:
		return nil
	case EntryReaction:
		if m.Reaction == nil || m.Reaction.Identifier == "" {
			return []string{"reaction giveaways need an emoji"}
		}
		return nil
	case EntryTrivia:
		var problems []string
		if m.Trivia == nil || strings.TrimSpace(m.Trivia.Question) == "" {
			problems = append(problems, "trivia giveaways need a question")
		}
		if m.Trivia == nil || strings.TrimSpace(m.Trivia.Answer) == "" {
			problems = append(problems, "trivia giveaways need an answer")
		}
		if m.Trivia != nil && m.Trivia.MaxAttempts != UnlimitedAttempts && m.Trivia.MaxAttempts < 1 {
			problems = append(problems, "max attempts must be at least 1, or -1 for unlimited")
		}
		return problems
	default:
		return []string{"an entry mode must be chosen"}
	}
}

func (m EntryMode) clone() EntryMode {
	c := EntryMode{Kind: m.Kind}
	if m.Reaction != nil {
		r := *m.Reaction
		c.Reaction = &r
	}
	if m.Trivia != nil {
		t := *m.Trivia
		c.Trivia = &t
	}
	return c
}
