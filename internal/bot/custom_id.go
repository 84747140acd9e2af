package bot

import (
	"errors"
	"fmt"
	"strings"
)

// CustomIDSeparator joins a component prefix and its parts.
const CustomIDSeparator = "_"

// MaxCustomIDLength is Discord's limit for component custom ids.
const MaxCustomIDLength = 100

var (
	// ErrCustomIDTooLong is returned when an encoded custom id exceeds MaxCustomIDLength.
	ErrCustomIDTooLong = errors.New("custom id too long")

	// ErrInvalidCustomIDPart is returned when a part is empty or contains the separator.
	ErrInvalidCustomIDPart = errors.New("invalid custom id part")
)

// CustomID is a decoded component identifier: the registered prefix followed
// by the dynamic parts that were appended to it.
type CustomID struct {
	Prefix string
	Parts  []string
}

// NewCustomID encodes prefix and parts into a component custom id.
func NewCustomID(prefix string, parts ...string) (string, error) {
	for _, p := range parts {
		if p == "" || strings.Contains(p, CustomIDSeparator) {
			return "", fmt.Errorf("%w: %q", ErrInvalidCustomIDPart, p)
		}
	}

	id := strings.Join(append([]string{prefix}, parts...), CustomIDSeparator)
	if len(id) > MaxCustomIDLength {
		return "", fmt.Errorf("%w: %d characters", ErrCustomIDTooLong, len(id))
	}

	return id, nil
}

// MustCustomID is like NewCustomID but panics on invalid input.
// Use it only with parts that are known to be valid, such as uuids and snowflakes.
func MustCustomID(prefix string, parts ...string) string {
	id, err := NewCustomID(prefix, parts...)
	if err != nil {
		panic(err)
	}
	return id
}

// ParseCustomID decodes raw against prefix. It reports false when raw is not
// prefix itself or prefix followed by the separator.
func ParseCustomID(prefix, raw string) (CustomID, bool) {
	if raw == prefix {
		return CustomID{Prefix: prefix}, true
	}

	rest, ok := strings.CutPrefix(raw, prefix+CustomIDSeparator)
	if !ok {
		return CustomID{}, false
	}

	return CustomID{Prefix: prefix, Parts: strings.Split(rest, CustomIDSeparator)}, true
}

// Part returns the i-th part, or an empty string when it is absent.
func (c CustomID) Part(i int) string {
	if i < 0 || i >= len(c.Parts) {
		return ""
	}
	return c.Parts[i]
}

// String encodes the custom id.
func (c CustomID) String() string {
	return strings.Join(append([]string{c.Prefix}, c.Parts...), CustomIDSeparator)
}
