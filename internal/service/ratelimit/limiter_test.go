package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllowDrainsBucket(t *testing.T) {
	l := New()
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("p", 3, 1))
	}
	require.False(t, l.Allow("p", 3, 1))
}

func TestRefillRestoresTokens(t *testing.T) {
	l := New()
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("p", 1, 0.5))
	require.False(t, l.Allow("p", 1, 0.5))

	now = now.Add(2 * time.Second)
	require.True(t, l.Allow("p", 1, 0.5))
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()
	require.True(t, l.Allow("a", 1, 0))
	require.True(t, l.Allow("b", 1, 0))
	require.False(t, l.Allow("a", 1, 0))
}
