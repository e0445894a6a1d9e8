package questionbank

import (
	"strings"
	"unicode"
)

// strippedPunctuation covers the full-width and half-width marks that users
// tend to type inconsistently.
var strippedPunctuation = map[rune]struct{}{
	'，': {}, '。': {}, '、': {}, '？': {}, '！': {}, '．': {},
	'.': {}, '?': {}, ',': {}, '!': {},
	'；': {}, ';': {}, '：': {}, ':': {},
	'（': {}, '）': {}, '(': {}, ')': {},
	'【': {}, '】': {}, '[': {}, ']': {},
	'“': {}, '”': {}, '‘': {}, '’': {}, '"': {}, '\'': {},
}

// Normalize drops whitespace and punctuation and lower-cases the rest. The
// same function must be applied to the query and to every stored question.
func Normalize(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if isSpace(r) {
			continue
		}
		if _, ok := strippedPunctuation[r]; ok {
			continue
		}
		builder.WriteRune(unicode.ToLower(r))
	}
	return builder.String()
}

// isSpace matches the Unicode White_Space set plus the byte order mark, but
// keeps U+0085 (NEL), which JavaScript's \s does not treat as whitespace.
func isSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return unicode.IsSpace(r) || r == '\uFEFF'
}
