package regexgenerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompileRejectsInvalidSource(t *testing.T) {
	_, err := Compile("(unterminated")
	require.Error(t, err)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	require.Equal(t, "(unterminated", compileErr.Source)
}

func TestFullMatchAnchorsBothEnds(t *testing.T) {
	compiled, err := Compile(`\d{3}`)
	require.NoError(t, err)

	matched, timedOut := compiled.FullMatch("123", 0)
	require.True(t, matched)
	require.False(t, timedOut)

	matched, timedOut = compiled.FullMatch("a123", 0)
	require.False(t, matched)
	require.False(t, timedOut)
}

func TestSearchFindsUnanchoredSubstring(t *testing.T) {
	compiled, err := Compile(`\d{3}`)
	require.NoError(t, err)

	matched, timedOut := compiled.Search("prefix123suffix", 0)
	require.True(t, matched)
	require.False(t, timedOut)
}

func TestFullMatchTimesOutOnCatastrophicBacktracking(t *testing.T) {
	// (?:.*)+ against a long non-matching string is the pathological shape
	// from spec.md §8 scenario 5.
	compiled, err := Compile(`(?:.*)+x`)
	require.NoError(t, err)

	victim := make([]byte, 40)
	for i := range victim {
		victim[i] = 'a'
	}

	matched, timedOut := compiled.FullMatch(string(victim), 10*time.Millisecond)
	require.False(t, matched)
	require.True(t, timedOut)
}

func TestZeroTimeoutIsUnbounded(t *testing.T) {
	compiled, err := Compile(`[a-z]+`)
	require.NoError(t, err)

	matched, timedOut := compiled.FullMatch("hello", 0)
	require.True(t, matched)
	require.False(t, timedOut)
}
