package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make derives a deterministic url-safe slug: diacritics stripped, lower-cased,
// every run of non [a-z0-9] collapsed to a single hyphen, no edge hyphens.
// Names that normalize to nothing yield the empty string.
func Make(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var buf strings.Builder
	buf.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && buf.Len() > 0 {
				buf.WriteByte('-')
			}
			pendingHyphen = false
			buf.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return buf.String()
}
