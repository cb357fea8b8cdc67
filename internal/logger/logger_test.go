package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoggerDaemonWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)
	l.Daemon(slog.LevelInfo, "reload complete")

	name := "daemon-" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	line := strings.TrimRight(string(data), "\n")
	require.Contains(t, line, "INFO")
	require.Contains(t, line, "reload complete")
	require.NotContains(t, line, "job_id=")
}

func TestLoggerJobWritesIdentifiers(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)
	l.Job(slog.LevelError, "backup", "run-1", "exceeded timeout")

	name := "job-" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	line := string(data)
	require.Contains(t, line, "ERROR")
	require.Contains(t, line, "job_id=backup")
	require.Contains(t, line, "run_id=run-1")
	require.Contains(t, line, "exceeded timeout")
}

func TestCleanupRemovesOldFiles(t *testing.T) {
	dir := t.TempDir()
	oldName := "daemon-2020-01-01.log"
	freshName := "daemon-" + time.Now().Format("2006-01-02") + ".log"

	require.NoError(t, os.WriteFile(filepath.Join(dir, oldName), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, freshName), []byte("y\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("z\n"), 0o644))

	require.NoError(t, Cleanup(dir, 30))

	_, err := os.Stat(filepath.Join(dir, oldName))
	require.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, freshName))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "unrelated.txt"))
	require.NoError(t, err)
}

func TestNewConsoleRespectsVerboseFlag(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewConsole(&buf, false)
	quiet.Debug("hidden at info level")
	require.Empty(t, buf.String())

	buf.Reset()
	loud := NewConsole(&buf, true)
	loud.Debug("shown at debug level")
	require.Contains(t, buf.String(), "shown at debug level")
}
