package data

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// AbilityModifier returns the standard D&D 5e ability modifier for a given
// score, rounding down for odd scores below 10.
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 && d%2 != 0 {
		return d/2 - 1
	}
	return d / 2
}

// AndJoin joins items as an English list: "a", "a and b", "a, b, and c".
func AndJoin(items []string) string {
	return join(items, "and")
}

// OrJoin is AndJoin with "or".
func OrJoin(items []string) string {
	return join(items, "or")
}

func join(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conj + " " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", " + conj + " " + items[len(items)-1]
}

// CapitalizeFirst upper-cases the first letter of s.
func CapitalizeFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Thousands formats n with comma separators, e.g. 155,000.
func Thousands(n int) string {
	return printer.Sprintf("%d", n)
}

// Slug turns a creature name into its file name, e.g. "Giant Rat" into "giant-rat".
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
