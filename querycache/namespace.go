package querycache

import (
	"strings"
	"unicode"
)

// Namespace normalizes a cache namespace name to snake_case. Punctuation and
// separators collapse to a single underscore so a namespace can never contain
// the key separator and break prefix invalidation.
func Namespace(name string) string {
	if name == "" {
		return ""
	}

	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	underscore := false
	sep := func() {
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sep()
				}
			}
			b.WriteRune(unicode.ToLower(r))
			underscore = false
		case unicode.IsLower(r):
			b.WriteRune(r)
			underscore = false
		case unicode.IsDigit(r):
			if i > 0 && unicode.IsLetter(runes[i-1]) {
				sep()
			}
			b.WriteRune(r)
			underscore = false
		default:
			sep()
		}
	}

	return strings.Trim(b.String(), "_")
}
