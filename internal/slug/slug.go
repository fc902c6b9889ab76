// Package slug derives URL-safe identifiers from website display names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Generate lower-cases name, folds accented letters to ASCII and keeps only
// [a-z0-9-]. Whitespace runs become a single hyphen, hyphen runs collapse and
// leading/trailing hyphens are trimmed.
//
// The result may be empty (for example when name is only punctuation); callers
// pick their own fallback. Different names may map to the same slug.
func Generate(name string) string {
	folded, _, err := transform.String(foldAccents(), strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}
	return b.String()
}

// transform.Transformer chains keep state, so each call gets its own.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
