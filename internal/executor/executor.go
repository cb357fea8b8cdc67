// Package executor runs one job invocation to completion and produces
// the ExecutionRecord describing its outcome (spec.md §4.4). Each call
// to Run is an independent concurrent task: the daemon loop spawns one
// per due or requested job and collects the result on a channel.
package executor

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/loykin/ezcron/internal/clock"
	"github.com/loykin/ezcron/internal/logger"
	"github.com/loykin/ezcron/internal/model"
)

// Executor spawns job commands and waits for them under a timeout.
type Executor struct {
	clock clock.Clock
	log   *logger.Logger
}

// New builds an Executor that stamps records using c and writes
// event-start/event-end lines through log.
func New(c clock.Clock, log *logger.Logger) *Executor {
	return &Executor{clock: c, log: log}
}

// Run spawns job's command, waits up to job.Timeout(), and returns the
// resulting ExecutionRecord. It never returns an error itself: every
// failure mode is folded into the record's Status per spec.md §4.4's
// outcome table.
func (e *Executor) Run(job model.JobConfig, trigger model.Trigger) model.ExecutionRecord {
	runID := uuid.NewString()
	startedAt := e.clock.Now()

	e.log.Job(slog.LevelInfo, job.ID, runID, fmt.Sprintf("event=start trigger=%s command=%s", trigger, job.Command.Program))

	cmd := exec.Command(job.Command.Program, job.Command.Args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err == nil {
		cmd.Stdin = devNull
		cmd.Stdout = devNull
		cmd.Stderr = devNull
		defer func() { _ = devNull.Close() }()
	}
	if job.Command.WorkingDir != "" {
		cmd.Dir = job.Command.WorkingDir
	}
	cmd.Env = buildEnv(job.Command.Env)
	// Own process group so a timeout can terminate the whole subtree,
	// not just the immediate child, mirroring the teacher's supervisor.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	status, exitCode, message := e.wait(cmd, job.ID, job.Timeout())

	endedAt := e.clock.Now()
	level := slog.LevelInfo
	if status != model.StatusSuccess {
		level = slog.LevelError
	}
	e.log.Job(level, job.ID, runID, message)

	return model.ExecutionRecord{
		RunID:     runID,
		JobID:     job.ID,
		Trigger:   trigger,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Status:    status,
		ExitCode:  exitCode,
		Message:   message,
	}
}

func (e *Executor) wait(cmd *exec.Cmd, jobID string, timeout time.Duration) (model.Status, *int, string) {
	if err := cmd.Start(); err != nil {
		return model.StatusFailed, nil, fmt.Sprintf("event=failed message=spawn-error:%v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err == nil {
			code := cmd.ProcessState.ExitCode()
			return model.StatusSuccess, &code, "event=success"
		}
		var exitErr *exec.ExitError
		if ok := asExitError(err, &exitErr); ok {
			code := exitErr.ExitCode()
			return model.StatusFailed, &code, fmt.Sprintf("event=failed exit_code=%d", code)
		}
		return model.StatusFailed, nil, fmt.Sprintf("event=failed message=wait-error:%v", err)

	case <-timer.C:
		killProcessGroup(cmd)
		<-done
		return model.StatusTimeout, nil, "event=timeout"
	}
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

// killProcessGroup sends SIGKILL to the whole process group spawned for
// the job, matching the teacher's negative-pid kill against Setpgid.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}

func buildEnv(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
