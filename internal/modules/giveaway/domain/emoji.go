package domain

import (
	"errors"
	"strings"
	"unicode"

	"github.com/sglre6355/giveawaybot/internal/emoji"
)

// ErrInvalidEmoji is returned when input is neither custom emoji markup nor a unicode emoji.
var ErrInvalidEmoji = errors.New("not a valid emoji")

// ParseEmoji parses custom emoji markup such as <:name:id> or <a:name:id>, or a
// unicode emoji, into a ReactionEntry.
func ParseEmoji(input string) (ReactionEntry, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return ReactionEntry{}, ErrInvalidEmoji
	}

	if c, ok := emoji.ParseCustom(s); ok {
		return ReactionEntry{Identifier: c.ID, Display: s}, nil
	}

	if !isUnicodeEmoji(s) {
		return ReactionEntry{}, ErrInvalidEmoji
	}

	return ReactionEntry{Identifier: s, Display: s}, nil
}

// isUnicodeEmoji accepts short strings made of symbol runes plus the joiners
// and modifiers used to compose emoji sequences.
func isUnicodeEmoji(s string) bool {
	runes := []rune(s)
	if len(runes) > 16 {
		return false
	}

	hasSymbol := false
	for _, r := range runes {
		switch {
		case r == '\u200d', r == '\ufe0f', r == '\u20e3':
		case r >= 0x1f3fb && r <= 0x1f3ff:
		case r >= 0x1f1e6 && r <= 0x1f1ff:
			hasSymbol = true
		case r >= 0xe0020 && r <= 0xe007f:
		case unicode.Is(unicode.So, r):
			hasSymbol = true
		case r >= 0x2190 && r <= 0x2bff:
			hasSymbol = true
		case (r == '#' || r == '*' || unicode.IsDigit(r)) && strings.ContainsRune(s, '\u20e3'):
		default:
			return false
		}
	}

	return hasSymbol || strings.ContainsRune(s, '\u20e3')
}
