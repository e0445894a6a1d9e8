package questionbank

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleBank() Bank {
	return Bank{
		{
			Question: "什么是光合作用?",
			Options:  []string{"A", "B"},
			Answer:   json.RawMessage(`"A"`),
			Type:     "single",
		},
		{
			Question:    "Which planet is known as the Red Planet?",
			Options:     []string{"Venus", "Mars"},
			Answer:      json.RawMessage(`"Mars"`),
			Type:        "single",
			Explanation: "Iron oxide colors its surface.",
		},
	}
}

func TestFindBestEmptyBank(t *testing.T) {
	_, ok := FindBest("anything", nil)
	require.False(t, ok)

	_, ok = FindBest("anything", Bank{})
	require.False(t, ok)
}

func TestFindBestExactAfterNormalization(t *testing.T) {
	match, ok := FindBest("什么是光合作用", sampleBank())
	require.True(t, ok)
	require.Equal(t, 0, match.Index)
	require.Equal(t, 1.0, match.Score)
	require.Equal(t, "什么是光合作用?", match.Record.Question)
}

func TestFindBestLatinCaseInsensitive(t *testing.T) {
	match, ok := FindBest("which planet is known as the red planet", sampleBank())
	require.True(t, ok)
	require.Equal(t, 1, match.Index)
}

func TestFindBestUnrelatedQuery(t *testing.T) {
	_, ok := FindBest("完全不相关的内容", sampleBank())
	require.False(t, ok)
}

func TestFindBestBelowThreshold(t *testing.T) {
	// "光合" is contained but only scores 2/7.
	_, ok := FindBest("光合", sampleBank())
	require.False(t, ok)
}

func TestFindBestAtThreshold(t *testing.T) {
	bank := Bank{{Question: "abcdef"}}
	match, ok := FindBest("abc", bank)
	require.True(t, ok)
	require.Equal(t, 0.5, match.Score)
}

func TestFindBestAstralCharactersReachThreshold(t *testing.T) {
	bank := Bank{{Question: "𠮷野家", Answer: json.RawMessage(`"A"`)}}
	match, ok := FindBest("𠮷", bank)
	require.True(t, ok)
	require.Equal(t, 0.5, match.Score)
	require.Equal(t, 0, match.Index)

	match, ok = FindBest("😀", Bank{{Question: "😀ab"}})
	require.True(t, ok)
	require.Equal(t, 0.5, match.Score)
}

func TestFindBestPrefersHigherScore(t *testing.T) {
	bank := Bank{
		{Question: "abcdef", Type: "first"},
		{Question: "abcd", Type: "second"},
	}
	match, ok := FindBest("abc", bank)
	require.True(t, ok)
	require.Equal(t, "second", match.Record.Type)
	require.Equal(t, 0.75, match.Score)
}

func TestFindBestTieKeepsFirst(t *testing.T) {
	bank := Bank{
		{Question: "Same question?", Answer: json.RawMessage(`"first"`)},
		{Question: "same QUESTION", Answer: json.RawMessage(`"second"`)},
	}
	match, ok := FindBest("same question", bank)
	require.True(t, ok)
	require.Equal(t, 0, match.Index)
	require.JSONEq(t, `"first"`, string(match.Record.Answer))
}

func TestFindBestWhitespaceOnlyQuery(t *testing.T) {
	_, ok := FindBest("   ", sampleBank())
	require.False(t, ok)
}

func TestFindBestSingleSubstitutionScoresZero(t *testing.T) {
	_, ok := FindBest("什么是光和作用", sampleBank())
	require.False(t, ok)
}
