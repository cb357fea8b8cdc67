package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsEnabledDefaultsTrue(t *testing.T) {
	job := JobConfig{}
	require.True(t, job.IsEnabled())

	f := false
	job.Enabled = &f
	require.False(t, job.IsEnabled())

	tr := true
	job.Enabled = &tr
	require.True(t, job.IsEnabled())
}

func TestTimeoutDefaultsAndClamps(t *testing.T) {
	require.Equal(t, time.Duration(DefaultTimeoutSeconds)*time.Second, JobConfig{}.Timeout())
	require.Equal(t, 5*time.Second, JobConfig{TimeoutSeconds: 5}.Timeout())
	require.Equal(t, time.Second, JobConfig{TimeoutSeconds: -3}.Timeout())
}

func TestPushRecentEvictsOldest(t *testing.T) {
	var runs []ExecutionRecord
	for i := 0; i < RecentRunsCapacity+10; i++ {
		runs = PushRecent(runs, ExecutionRecord{RunID: string(rune('a' + i%26))})
	}
	require.Len(t, runs, RecentRunsCapacity)
	// The first 10 pushes (i=0..9) were evicted, so the ring starts at i=10.
	require.Equal(t, "k", runs[0].RunID)
}

func TestPushRecentPreservesOrderWithinCapacity(t *testing.T) {
	var runs []ExecutionRecord
	runs = PushRecent(runs, ExecutionRecord{RunID: "1"})
	runs = PushRecent(runs, ExecutionRecord{RunID: "2"})
	require.Equal(t, []string{"1", "2"}, []string{runs[0].RunID, runs[1].RunID})
}
