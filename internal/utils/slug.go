// internal/utils/slug.go
package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// GenerateSlug derives a URL-safe identifier from a human name: lower-case,
// decompose and drop combining marks ("Été" becomes "ete"), collapse every
// run of characters outside [a-z0-9] into a single hyphen, and trim hyphens
// at both ends. Pathological input such as "!!!" yields an empty string;
// callers must reject that as invalid input rather than persist it.
func GenerateSlug(name string) string {
	lowered := strings.ToLower(name)

	// Strip diacritics via canonical decomposition. The transformer keeps
	// internal state, so build a fresh one per call.
	deaccent := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(deaccent, lowered); err == nil {
		lowered = stripped
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingHyphen = false
		} else {
			pendingHyphen = true
		}
	}

	return b.String()
}
