package util

import (
	"strings"
	"unicode"
)

// Slugify lowercases s and joins its letter/digit runs with single hyphens.
// Returns fallback when nothing survives.
func Slugify(s, fallback string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
