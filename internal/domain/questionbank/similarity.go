package questionbank

import (
	"strings"
	"unicode/utf16"
)

// Similarity scores a and b by containment: the shorter string must appear
// verbatim inside the longer one, and the score is the ratio of their
// lengths in UTF-16 code units. Anything else scores 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	long, short := a, b
	longLen, shortLen := utf16Len(a), utf16Len(b)
	if longLen < shortLen {
		long, short = b, a
		longLen, shortLen = shortLen, longLen
	}
	if !strings.Contains(long, short) {
		return 0
	}
	return float64(shortLen) / float64(longLen)
}

// utf16Len counts characters outside the BMP as two units, matching the
// length browsers and existing clients report for the same text.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if size := len(utf16.Encode([]rune{r})); size > 0 {
			n += size
		} else {
			n++
		}
	}
	return n
}
