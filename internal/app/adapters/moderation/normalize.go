package moderation

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"strings"
)

var zeroWidthRunes = map[rune]struct{}{
	'\u200B': {}, // ZERO WIDTH SPACE
	'\u200C': {}, // ZERO WIDTH NON-JOINER
	'\u200D': {}, // ZERO WIDTH JOINER
	'\u200E': {}, // LEFT-TO-RIGHT MARK
	'\u200F': {}, // RIGHT-TO-LEFT MARK
	'\u202A': {}, // LEFT-TO-RIGHT EMBEDDING
	'\u202B': {}, // RIGHT-TO-LEFT EMBEDDING
	'\u202C': {}, // POP DIRECTIONAL FORMATTING
	'\u202D': {}, // LEFT-TO-RIGHT OVERRIDE
	'\u202E': {}, // RIGHT-TO-LEFT OVERRIDE
	'\u2060': {}, // WORD JOINER
	'\uFEFF': {}, // ZERO WIDTH NO-BREAK SPACE (BOM)
	'\u180E': {}, // MONGOLIAN VOWEL SEPARATOR
}

// Normalize strips invisible runes, applies NFKC and case folds, so that
// "ＧＧ", "g\u200Bg" and "GG" all compare equal to "gg".
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if isInvisibleRune(r) {
			return -1
		}
		return r
	}, s)

	// a Caser is stateful and must not be shared between goroutines
	return cases.Fold().String(norm.NFKC.String(s))
}

func isInvisibleRune(r rune) bool {
	if _, bad := zeroWidthRunes[r]; bad {
		return true
	}

	switch {
	// Tag characters
	case r >= 0xE0020 && r <= 0xE007F:
		return true
	// Variation Selectors
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0x2061 && r <= 0x2069:
		return true
	}
	return false
}
