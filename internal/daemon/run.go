package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loykin/ezcron/internal/clock"
	"github.com/loykin/ezcron/internal/executor"
	"github.com/loykin/ezcron/internal/jobconfig"
	"github.com/loykin/ezcron/internal/lifecycle"
	"github.com/loykin/ezcron/internal/logger"
	"github.com/loykin/ezcron/internal/model"
	"github.com/loykin/ezcron/internal/paths"
)

const (
	tickInterval      = 1 * time.Second
	retentionInterval = 1 * time.Hour
	logRetentionDays  = 30
)

// Run acquires the singleton lockfile, builds a Controller, and drives
// the one-second control loop until SIGINT or SIGTERM, releasing the lockfile on
// every exit path.
func Run(layout paths.Layout) error {
	guard, err := lifecycle.Acquire(layout.PIDFile)
	if err != nil {
		return err
	}
	defer guard.Release()

	log := logger.New(layout.LogsDir)
	log.Daemon(slog.LevelInfo, fmt.Sprintf("event=startup pid=%d", os.Getpid()))
	defer log.Daemon(slog.LevelInfo, "event=shutdown")

	ctl, err := NewController(layout, clock.Real{}, log, time.Now())
	if err != nil {
		return fmt.Errorf("initial job load: %w", err)
	}
	defer ctl.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	retention := time.NewTicker(retentionInterval)
	defer retention.Stop()

	for {
		select {
		case <-sigCh:
			log.Daemon(slog.LevelInfo, "event=signal-received")
			return nil

		case now := <-ticker.C:
			ctl.Tick(now)

		case <-retention.C:
			if err := logger.Cleanup(layout.LogsDir, logRetentionDays); err != nil {
				log.Daemon(slog.LevelError, "event=log-retention-error message="+err.Error())
			}
		}
	}
}

// RunInline loads jobID from layout.JobsDir and runs it once, outside
// the daemon loop, for the CLI's "run" command when no daemon is
// available (EZCRON_FORCE_INLINE, or daemon not running). It bypasses
// scheduling entirely, always uses trigger=manual-inline, and blocks until
// the job exits or its own timeout elapses — there is no separate
// cancellation signal.
func RunInline(layout paths.Layout, jobID string) (model.ExecutionRecord, error) {
	jobs, err := jobconfig.Load(layout.JobsDir)
	if err != nil {
		return model.ExecutionRecord{}, err
	}

	var job model.JobConfig
	found := false
	for _, j := range jobs {
		if j.ID == jobID {
			job = j
			found = true
			break
		}
	}
	if !found {
		return model.ExecutionRecord{}, fmt.Errorf("job %q not found", jobID)
	}

	log := logger.New(layout.LogsDir)
	exec := executor.New(clock.Real{}, log)
	return exec.Run(job, model.TriggerManualInline), nil
}
