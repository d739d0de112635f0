// Package naming turns raw OpenAPI schema, property, parameter and path names
// into identifiers that are safe to emit into generated C# sources.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type config struct {
	capitalizeFirst bool
	digitsToWords   bool
}

// Option tweaks Normalize.
type Option func(*config)

// KeepFirst leaves the first character as provided instead of upper-casing it.
func KeepFirst() Option { return func(c *config) { c.capitalizeFirst = false } }

// DigitsToWords spells out every decimal digit ("1" -> "One"). Used for enum
// members, where a leading digit would not be a legal identifier.
func DigitsToWords() Option { return func(c *config) { c.digitsToWords = true } }

var digitWords = [...]string{"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}

// reserved maps identifiers that collide with target-language keywords.
// "parameters" maps to itself so that normalizing a rewritten name is a no-op.
var reserved = map[string]string{
	"params":     "parameters",
	"parameters": "parameters",
}

// Normalize splits raw on '_' and '.', capitalizes the character following each
// separator (and the first character unless KeepFirst is given) and removes the
// separators. No other characters are sanitized.
func Normalize(raw string, opts ...Option) string {
	cfg := config{capitalizeFirst: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if r, ok := reserved[raw]; ok {
		return r
	}

	up := cases.Upper(language.Und)
	var b strings.Builder
	b.Grow(len(raw))
	capNext := cfg.capitalizeFirst
	for _, r := range raw {
		if isSeparator(r) {
			capNext = true
			continue
		}
		if capNext {
			b.WriteString(up.String(string(r)))
			capNext = false
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if r, ok := reserved[out]; ok {
		out = r
	}

	if cfg.digitsToWords {
		out = spellDigits(out)
	}
	return out
}

func isSeparator(r rune) bool { return r == '_' || r == '.' }

func spellDigits(s string) string {
	if !strings.ContainsAny(s, "0123456789") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteString(digitWords[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
