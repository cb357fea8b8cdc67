package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewResolvesLayout(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	require.Equal(t, abs, l.BaseDir)
	require.Equal(t, filepath.Join(abs, "jobs"), l.JobsDir)
	require.Equal(t, filepath.Join(abs, "logs"), l.LogsDir)
	require.Equal(t, filepath.Join(abs, "run"), l.RunDir)
	require.Equal(t, filepath.Join(abs, "run", "requests"), l.RequestsDir)
	require.Equal(t, filepath.Join(abs, "run", "daemon.pid"), l.PIDFile)
	require.Equal(t, filepath.Join(abs, "run", "state.json"), l.StateFile)
}

func TestEnsureDirsCreatesTree(t *testing.T) {
	dir := t.TempDir()
	l, err := New(filepath.Join(dir, "nested"))
	require.NoError(t, err)

	require.NoError(t, l.EnsureDirs())

	for _, d := range []string{l.JobsDir, l.LogsDir, l.RunDir, l.RequestsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestEnsureDirsIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, l.EnsureDirs())
	require.NoError(t, l.EnsureDirs())
}
