package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRealNowIsCurrent(t *testing.T) {
	before := time.Now()
	got := Real{}.Now()
	after := time.Now()
	require.False(t, got.Before(before))
	require.False(t, got.After(after))
}

func TestFixedNowReturnsConstant(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := Fixed{At: at}
	require.Equal(t, at, f.Now())
	require.Equal(t, at, f.Now())
}
