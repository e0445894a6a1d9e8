package questionbank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "abc", b: "abc", want: 1},
		{name: "identical cjk", a: "光合作用", b: "光合作用", want: 1},
		{name: "empty first", a: "", b: "abc", want: 0},
		{name: "empty second", a: "abc", b: "", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "short inside long", a: "abc", b: "xabcx", want: 3.0 / 5.0},
		{name: "long first", a: "xabcx", b: "abc", want: 3.0 / 5.0},
		{name: "no containment", a: "abc", b: "abd", want: 0},
		{name: "bmp cjk counts one unit each", a: "光合作用", b: "什么是光合作用", want: 4.0 / 7.0},
		{name: "emoji counts two units", a: "😀", b: "😀ab", want: 2.0 / 4.0},
		{name: "extension b ideograph counts two units", a: "𠮷", b: "𠮷野家", want: 2.0 / 4.0},
		{name: "astral in both operands", a: "野家", b: "𠮷野家", want: 2.0 / 4.0},
		{name: "equal length different text", a: "abcd", b: "abce", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, Similarity(tc.a, tc.b), 1e-9)
		})
	}
}

func TestSimilarityIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"abc", "xabcx"},
		{"光合", "光合作用"},
		{"abc", "abd"},
	}
	for _, p := range pairs {
		require.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]))
	}
}

func TestUTF16Len(t *testing.T) {
	require.Equal(t, 0, utf16Len(""))
	require.Equal(t, 3, utf16Len("abc"))
	require.Equal(t, 4, utf16Len("光合作用"))
	require.Equal(t, 4, utf16Len("𠮷野家"))
	require.Equal(t, 2, utf16Len("😀"))
}
