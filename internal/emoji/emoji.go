// Package emoji parses Discord custom emoji markup.
package emoji

import (
	"regexp"
	"strings"
)

var customPattern = regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]{2,32}):(\d{15,21})>$`)

// Custom is a parsed <:name:id> or <a:name:id> reference.
type Custom struct {
	Name     string
	ID       string
	Animated bool
}

// ParseCustom parses custom emoji markup. Surrounding whitespace is ignored.
func ParseCustom(s string) (Custom, bool) {
	m := customPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Custom{}, false
	}
	return Custom{Name: m[2], ID: m[3], Animated: m[1] == "a"}, true
}

// APIName returns the "name:id" form the reactions endpoint expects.
func (c Custom) APIName() string {
	return c.Name + ":" + c.ID
}

// APIName converts custom emoji markup into its reaction form and returns any
// other input trimmed but otherwise unchanged.
func APIName(s string) string {
	if c, ok := ParseCustom(s); ok {
		return c.APIName()
	}
	return strings.TrimSpace(s)
}
