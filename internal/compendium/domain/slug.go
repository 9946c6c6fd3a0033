package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Slugify derives a canonical identifier from a display name: lower-case,
// German umlauts transliterated (ä→ae, ö→oe, ü→ue, ß→ss), every run of
// non-alphanumeric characters collapsed to a single underscore, leading and
// trailing underscores trimmed. Names are NFC-normalized first so composed
// and decomposed umlauts slug identically.
func Slugify(name string) string {
	s := strings.ToLower(norm.NFC.String(name))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		var mapped string
		switch r {
		case 'ä':
			mapped = "ae"
		case 'ö':
			mapped = "oe"
		case 'ü':
			mapped = "ue"
		case 'ß':
			mapped = "ss"
		default:
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				mapped = string(r)
			}
		}
		if mapped == "" {
			if b.Len() > 0 {
				pendingSep = true
			}
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteString(mapped)
	}
	return b.String()
}
