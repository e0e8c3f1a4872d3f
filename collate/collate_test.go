package collate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexicographicIsDeterministic(t *testing.T) {
	var c Lexicographic

	a, err := c.SortKey("hello", "")
	require.NoError(t, err)
	b, err := c.SortKey("hello", "")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestLexicographicNormalisesToNFC(t *testing.T) {
	var c Lexicographic

	nfc, err := c.SortKey("La Niña", "") // decomposed n + combining tilde
	require.NoError(t, err)
	precomposed, err := c.SortKey("La Niña", "")
	require.NoError(t, err)

	require.True(t, bytes.Equal(nfc, precomposed))
}

func TestLexicographicOrdersByByteValue(t *testing.T) {
	var c Lexicographic

	a, err := c.SortKey("apple", "")
	require.NoError(t, err)
	b, err := c.SortKey("banana", "")
	require.NoError(t, err)

	require.True(t, bytes.Compare(a, b) < 0)
}

func TestCLDRIsDeterministic(t *testing.T) {
	var c CLDR

	a, err := c.SortKey("cote", "fr")
	require.NoError(t, err)
	b, err := c.SortKey("cote", "fr")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCLDRRejectsInvalidLocale(t *testing.T) {
	var c CLDR
	_, err := c.SortKey("text", "not a locale !!")
	require.Error(t, err)
}
