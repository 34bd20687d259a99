// Package slug derives URL-safe identifiers from human-entered names.
package slug

import (
	"strings"
)

// latinFold maps common Latin letters with diacritics to their ASCII forms.
// Anything not covered here and not ASCII alphanumeric becomes a separator.
var latinFold = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a", 'æ': "ae",
	'ç': "c", 'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ñ': "n", 'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'ý': "y", 'ÿ': "y", 'ß': "ss",
}

// Make converts a name into a lowercase URL-safe slug.
// ASCII letters and digits are kept, common Latin diacritics are
// transliterated, and every other run of characters collapses into a
// single '-'. The result carries no leading or trailing separators,
// so Make is idempotent: Make(Make(x)) == Make(x).
//
// Distinct names may produce the same slug; uniqueness is enforced by
// the slug_title unique index, not here.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			if folded, ok := latinFold[r]; ok {
				if pendingSep && b.Len() > 0 {
					b.WriteByte('-')
				}
				pendingSep = false
				b.WriteString(folded)
			} else {
				pendingSep = true
			}
		}
	}

	return b.String()
}
