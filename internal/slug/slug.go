// Package slug turns display names into URL path segments.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// replacements covers characters that have no decomposition to ASCII.
var replacements = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'Æ': "ae",
	'ø': "o",
	'Ø': "o",
	'đ': "d",
	'Đ': "d",
	'ł': "l",
	'Ł': "l",
	'œ': "oe",
	'Œ': "oe",
}

// Make returns a lowercase, hyphen-separated slug for s.
//
// Letters are folded to their unaccented form, runs of any other characters
// collapse to a single hyphen, and leading/trailing hyphens are trimmed.
// "My Button" becomes "my-button"; "Crème Brûlée" becomes "creme-brulee".
func Make(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	word := func(w string) {
		if pendingDash && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingDash = false
		b.WriteString(w)
	}
	for _, r := range folded {
		if rep, ok := replacements[r]; ok {
			word(rep)
			continue
		}
		switch {
		case r == '&':
			pendingDash = true
			word("and")
			pendingDash = true
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word(string(unicode.ToLower(r)))
		default:
			pendingDash = true
		}
	}
	return b.String()
}
