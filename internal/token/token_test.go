package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	for _, word := range Keywords.Words() {
		require.True(t, IsKeyword(word), word)
		require.True(t, IsKeyword(strings.ToUpper(word)), word)
	}
	require.False(t, IsKeyword("tommy"))
}

func TestPronouns(t *testing.T) {
	require.True(t, Pronouns.Has("It"))
	require.True(t, IsKeyword("them"))
	require.False(t, Pronouns.Has("my"))
}

func TestPosition(t *testing.T) {
	pos := Position{Line: 2, Column: 0}
	// Switches to 1-indexed
	require.Equal(t, 3, pos.LineNumber())
	require.Equal(t, 1, pos.ColumnNumber())
	require.Equal(t, "3:1", pos.String())

	next := pos.Advance(4)
	require.Equal(t, 4, next.Column)
	require.True(t, pos.Before(next))
	require.True(t, next.Before(next.NextLine()))
	require.Equal(t, Position{Line: 3}, next.NextLine())
	require.False(t, NoPos.IsValid())
}
