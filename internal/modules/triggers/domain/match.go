package domain

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/sglre6355/giveawaybot/internal/emoji"
)

// MatchMode selects how trigger phrases are compared with message content.
// Every mode ignores case.
type MatchMode string

const (
	// MatchExact requires the whole message to equal the phrase.
	MatchExact MatchMode = "exact"

	// MatchWord requires the phrase bounded by non-word, non-colon characters,
	// so "cat" does not match inside ":catjam:".
	MatchWord MatchMode = "word"

	// MatchContains requires the phrase anywhere in the message.
	MatchContains MatchMode = "contains"

	// MatchPrefix requires the message to start with the phrase.
	MatchPrefix MatchMode = "prefix"
)

// ParseMatchMode parses a mode name.
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case MatchExact, MatchWord, MatchContains, MatchPrefix:
		return m, nil
	default:
		return "", fmt.Errorf("unknown match mode %q", s)
	}
}

var wordPatterns sync.Map // phrase -> *regexp.Regexp

func wordPattern(phrase string) *regexp.Regexp {
	if re, ok := wordPatterns.Load(phrase); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)(^|[^\w:])` + regexp.QuoteMeta(phrase) + `($|[^\w:])`)
	wordPatterns.Store(phrase, re)
	return re
}

// Matches reports whether content matches phrase under mode.
func (m MatchMode) Matches(content, phrase string) bool {
	if phrase == "" {
		return false
	}

	switch m {
	case MatchExact:
		return strings.EqualFold(strings.TrimSpace(content), phrase)
	case MatchWord:
		return wordPattern(phrase).MatchString(content)
	case MatchContains:
		return strings.Contains(strings.ToLower(content), strings.ToLower(phrase))
	case MatchPrefix:
		return strings.HasPrefix(strings.ToLower(content), strings.ToLower(phrase))
	default:
		return false
	}
}

// MatchAny reports whether content matches any of phrases.
func (m MatchMode) MatchAny(content string, phrases []string) bool {
	for _, p := range phrases {
		if m.Matches(content, p) {
			return true
		}
	}
	return false
}

// ReactionName converts an item into the form the REST API expects for
// reactions: "name:id" for custom emoji markup, the item itself otherwise.
func ReactionName(item string) string {
	return emoji.APIName(item)
}
