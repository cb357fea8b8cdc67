package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loykin/ezcron/internal/clock"
	"github.com/loykin/ezcron/internal/logger"
	"github.com/loykin/ezcron/internal/model"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	return New(clock.Fixed{At: time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)}, logger.New(t.TempDir()))
}

func TestRunSuccess(t *testing.T) {
	e := newTestExecutor(t)
	job := model.JobConfig{
		ID:      "ok",
		Name:    "ok",
		Command: model.CommandConfig{Program: "true"},
	}
	rec := e.Run(job, model.TriggerManual)
	require.Equal(t, model.StatusSuccess, rec.Status)
	require.NotNil(t, rec.ExitCode)
	require.Equal(t, 0, *rec.ExitCode)
}

func TestRunFailureExitCode(t *testing.T) {
	e := newTestExecutor(t)
	job := model.JobConfig{
		ID:      "bad",
		Name:    "bad",
		Command: model.CommandConfig{Program: "false"},
	}
	rec := e.Run(job, model.TriggerManual)
	require.Equal(t, model.StatusFailed, rec.Status)
	require.NotNil(t, rec.ExitCode)
	require.Equal(t, 1, *rec.ExitCode)
}

func TestRunSpawnError(t *testing.T) {
	e := newTestExecutor(t)
	job := model.JobConfig{
		ID:      "missing",
		Name:    "missing",
		Command: model.CommandConfig{Program: "/nonexistent/ezcron-missing-binary"},
	}
	rec := e.Run(job, model.TriggerManual)
	require.Equal(t, model.StatusFailed, rec.Status)
	require.Nil(t, rec.ExitCode)
}

func TestRunTimeout(t *testing.T) {
	e := newTestExecutor(t)
	job := model.JobConfig{
		ID:             "slow",
		Name:           "slow",
		TimeoutSeconds: 1,
		Command:        model.CommandConfig{Program: "sleep", Args: []string{"5"}},
	}
	start := time.Now()
	rec := e.Run(job, model.TriggerSchedule)
	elapsed := time.Since(start)

	require.Equal(t, model.StatusTimeout, rec.Status)
	require.Nil(t, rec.ExitCode)
	require.Less(t, elapsed, 4*time.Second)
}

func TestRunEnvAndArgs(t *testing.T) {
	e := newTestExecutor(t)
	job := model.JobConfig{
		ID:      "env",
		Name:    "env",
		Command: model.CommandConfig{Program: "sh", Args: []string{"-c", "test \"$FOO\" = bar"}, Env: map[string]string{"FOO": "bar"}},
	}
	rec := e.Run(job, model.TriggerManual)
	require.Equal(t, model.StatusSuccess, rec.Status)
}
