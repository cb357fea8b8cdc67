// Package daemon implements the control loop described in spec.md §4.3:
// a one-second ticker that fuses filesystem reloads, manual-run
// requests, due-schedule firing, and completion harvesting, then
// publishes a state snapshot every tick.
package daemon

import (
	"log/slog"
	"os"
	"time"

	"github.com/loykin/ezcron/internal/clock"
	"github.com/loykin/ezcron/internal/executor"
	"github.com/loykin/ezcron/internal/jobconfig"
	"github.com/loykin/ezcron/internal/logger"
	"github.com/loykin/ezcron/internal/metrics"
	"github.com/loykin/ezcron/internal/model"
	"github.com/loykin/ezcron/internal/paths"
	"github.com/loykin/ezcron/internal/requests"
	"github.com/loykin/ezcron/internal/schedule"
	"github.com/loykin/ezcron/internal/state"
	"github.com/loykin/ezcron/internal/watcher"
)

// completionChanCapacity matches spec.md §5: backpressure is acceptable
// since the control loop drains the channel on every tick.
const completionChanCapacity = 256

// Controller owns every piece of mutable daemon state: the job set, the
// per-job next-fire map, the per-job last result, and the bounded ring
// of recent executions. All mutation happens on the Tick goroutine;
// executor goroutines communicate exclusively through completions.
type Controller struct {
	layout paths.Layout
	clock  clock.Clock
	log    *logger.Logger
	exec   *executor.Executor
	watch  *watcher.Watcher

	jobs            []model.JobConfig
	nextFire        map[string]*time.Time
	lastResult      map[string]model.ExecutionRecord
	recent          []model.ExecutionRecord
	lastReloadError string
	lastPublish     time.Time

	completions chan model.ExecutionRecord
	shutdown    chan struct{}
}

// NewController loads the initial job set from layout.JobsDir, starts
// the filesystem watch, and computes the first round of next-fire
// times. now is the lower bound used for that first computation.
func NewController(layout paths.Layout, c clock.Clock, log *logger.Logger, now time.Time) (*Controller, error) {
	w, err := watcher.New(layout.JobsDir)
	if err != nil {
		return nil, err
	}

	ctl := &Controller{
		layout:      layout,
		clock:       c,
		log:         log,
		exec:        executor.New(c, log),
		watch:       w,
		nextFire:    make(map[string]*time.Time),
		lastResult:  make(map[string]model.ExecutionRecord),
		completions: make(chan model.ExecutionRecord, completionChanCapacity),
		shutdown:    make(chan struct{}),
	}

	jobs, err := jobconfig.Load(layout.JobsDir)
	if err != nil {
		return nil, err
	}
	ctl.reloadSet(jobs, now)
	return ctl, nil
}

// Close stops the filesystem watch and signals in-flight executors that
// their completion records may be dropped.
func (c *Controller) Close() {
	close(c.shutdown)
	_ = c.watch.Close()
}

// Tick runs one full iteration of the control loop's fixed step order
// (spec.md §4.3, steps 1-5) using now as the current instant.
func (c *Controller) Tick(now time.Time) {
	c.drainWatcher(now)
	c.collectRequests(now)
	c.fireDue(now)
	c.harvest()
	c.publish(now)
}

func (c *Controller) drainWatcher(now time.Time) {
	if !c.watch.Drain() {
		return
	}
	jobs, err := jobconfig.Load(c.layout.JobsDir)
	if err != nil {
		c.lastReloadError = err.Error()
		metrics.IncReloadError("invalid-descriptor")
		c.log.Daemon(slog.LevelError, "event=reload-failed message="+err.Error())
		return
	}
	c.reloadSet(jobs, now)
	c.lastReloadError = ""
	c.log.Daemon(slog.LevelInfo, "event=reload-ok")
}

func (c *Controller) reloadSet(jobs []model.JobConfig, now time.Time) {
	c.jobs = jobs

	nextFire := make(map[string]*time.Time, len(jobs))
	lastResult := make(map[string]model.ExecutionRecord, len(jobs))
	for _, job := range jobs {
		next, err := schedule.NextRunAfter(job, now)
		if err != nil {
			c.log.Daemon(slog.LevelError, "event=schedule-error job_id="+job.ID+" message="+err.Error())
			next = nil
		}
		nextFire[job.ID] = next
		if rec, ok := c.lastResult[job.ID]; ok {
			lastResult[job.ID] = rec
		}
	}
	c.nextFire = nextFire
	c.lastResult = lastResult
}

func (c *Controller) collectRequests(now time.Time) {
	ids, err := requests.Collect(c.layout.RequestsDir)
	if err != nil {
		c.log.Daemon(slog.LevelError, "event=request-collect-error message="+err.Error())
		return
	}
	for _, id := range ids {
		job, ok := c.findJob(id)
		if !ok || !job.IsEnabled() {
			continue
		}
		c.dispatch(job, model.TriggerManual)
	}
	_ = now
}

func (c *Controller) fireDue(now time.Time) {
	for _, job := range c.jobs {
		if !job.IsEnabled() {
			continue
		}
		next := c.nextFire[job.ID]
		if next == nil || next.After(now) {
			continue
		}
		c.dispatch(job, model.TriggerSchedule)

		recomputed, err := schedule.NextRunAfter(job, now.Add(time.Second))
		if err != nil {
			c.log.Daemon(slog.LevelError, "event=schedule-error job_id="+job.ID+" message="+err.Error())
			recomputed = nil
		}
		c.nextFire[job.ID] = recomputed
	}
}

func (c *Controller) dispatch(job model.JobConfig, trigger model.Trigger) {
	go func() {
		rec := c.exec.Run(job, trigger)
		metrics.IncExecution(job.ID, string(rec.Status))
		select {
		case c.completions <- rec:
		case <-c.shutdown:
		}
	}()
}

func (c *Controller) harvest() {
	for {
		select {
		case rec := <-c.completions:
			c.lastResult[rec.JobID] = rec
			c.recent = model.PushRecent(c.recent, rec)
		default:
			return
		}
	}
}

func (c *Controller) publish(now time.Time) {
	views := make([]model.JobView, 0, len(c.jobs))
	for _, job := range c.jobs {
		view := model.JobView{
			ID:       job.ID,
			Name:     job.Name,
			Enabled:  job.IsEnabled(),
			Schedule: schedule.ScheduleLabel(job.Schedule),
			NextRun:  c.nextFire[job.ID],
		}
		if rec, ok := c.lastResult[job.ID]; ok {
			r := rec
			view.LastResult = &r
		}
		views = append(views, view)
	}

	st := model.DaemonState{
		UpdatedAt:       now,
		PID:             os.Getpid(),
		Running:         true,
		LastReloadError: c.lastReloadError,
		Jobs:            views,
		RecentRuns:      c.recent,
	}

	if err := state.Publish(c.layout.StateFile, st); err != nil {
		c.log.Daemon(slog.LevelError, "event=publish-error message="+err.Error())
		if !c.lastPublish.IsZero() {
			metrics.SetSecondsSincePublish(now.Sub(c.lastPublish).Seconds())
		}
		return
	}

	metrics.SetRecentRunsSize(len(c.recent))
	if !c.lastPublish.IsZero() {
		metrics.SetSecondsSincePublish(now.Sub(c.lastPublish).Seconds())
	}
	c.lastPublish = now
}

func (c *Controller) findJob(id string) (model.JobConfig, bool) {
	for _, job := range c.jobs {
		if job.ID == id {
			return job, true
		}
	}
	return model.JobConfig{}, false
}
