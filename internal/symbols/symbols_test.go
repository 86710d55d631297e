package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got := Normalize("aapl, Msft ,aapl")
	require.Equal(t, []string{"AAPL", "MSFT"}, got)
}

func TestNormalizeEmptyTokens(t *testing.T) {
	require.Empty(t, Normalize(",, ,"))
	require.Equal(t, []string{"TSLA"}, Normalize(" tsla ,,"))
}

func TestValidate(t *testing.T) {
	valid := []string{"AAPL", "brk.b", "A", "ABCDEFGH", "X_1-2.3"}
	for _, s := range valid {
		require.True(t, Validate(s), "expected %q valid", s)
	}
	invalid := []string{"", "TOOLONGSYM", "AA PL", "AAPL$", "日経"}
	for _, s := range invalid {
		require.False(t, Validate(s), "expected %q invalid", s)
	}
}

func TestSanitize(t *testing.T) {
	in := []string{"aapl", "AAPL", "bad sym", "msft", "WAYTOOLONG", "brk.b"}
	got := Sanitize(in)
	require.Equal(t, []string{"AAPL", "MSFT", "BRK.B"}, got)
	for _, s := range got {
		require.True(t, Validate(s))
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	in := []string{"aapl", "not a symbol", "msft", "aapl"}
	once := Sanitize(in)
	twice := Sanitize(once)
	require.Equal(t, once, twice)
}
