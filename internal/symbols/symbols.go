// Package symbols is the single source of truth for acceptable ticker
// symbols.
package symbols

import (
	"regexp"
	"strings"
)

var symbolRe = regexp.MustCompile(`^[A-Z0-9_.-]{1,8}$`)

// Normalize splits a comma-separated list, trims, uppercases, and dedupes
// preserving first-seen order. It never fails; tokens are not validated.
func Normalize(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		s := strings.ToUpper(strings.TrimSpace(p))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Validate reports whether the symbol is acceptable after uppercasing.
func Validate(symbol string) bool {
	return symbolRe.MatchString(strings.ToUpper(symbol))
}

// Sanitize uppercases, dedupes preserving order, and drops entries failing
// Validate. Applying it twice yields the same result as once.
func Sanitize(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, p := range symbols {
		s := strings.ToUpper(strings.TrimSpace(p))
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		if !symbolRe.MatchString(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
