package lifecycle

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireThenRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")

	g, err := Acquire(path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(os.Getpid()), string(raw))

	pid, ok := RunningPID(path)
	require.True(t, ok)
	require.Equal(t, os.Getpid(), pid)

	g.Release()
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestAcquireSucceedsWhenStaleLockLeftByDeadPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	// A PID essentially guaranteed not to be running.
	require.NoError(t, os.WriteFile(path, []byte("999999"), 0o644))

	g, err := Acquire(path)
	require.NoError(t, err)
	defer g.Release()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(os.Getpid()), string(raw))
}

func TestAcquireFailsWhenAlreadyRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644))

	_, err := Acquire(path)
	require.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestRunningPIDFalseWhenFileAbsent(t *testing.T) {
	_, ok := RunningPID(filepath.Join(t.TempDir(), "absent.pid"))
	require.False(t, ok)
}

func TestStopErrorsWhenNotRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.pid")
	require.Error(t, Stop(path))
}
