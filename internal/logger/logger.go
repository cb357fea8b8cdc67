// Package logger writes daemon and job event lines to date-keyed files
// under the logs directory (spec.md §6) and sweeps files older than the
// retention window. It builds on log/slog the same way the teacher's
// color_text_handler.go wraps slog with a custom renderer, except the
// handler here targets the fixed on-disk line format instead of a
// colorized terminal.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger writes to <dir>/daemon-YYYY-MM-DD.log and <dir>/job-YYYY-MM-DD.log.
type Logger struct {
	daemon *slog.Logger
	job    *slog.Logger
}

// New creates a Logger rooted at dir. dir must already exist.
func New(dir string) *Logger {
	return &Logger{
		daemon: slog.New(newLineHandler(dir, "daemon")),
		job:    slog.New(newLineHandler(dir, "job")),
	}
}

// Daemon writes a daemon-scoped event line.
func (l *Logger) Daemon(level slog.Level, message string) {
	l.daemon.Log(context.Background(), level, message)
}

// Job writes a job-scoped event line tagged with job_id and run_id.
func (l *Logger) Job(level slog.Level, jobID, runID, message string) {
	l.job.Log(context.Background(), level, message, "job_id", jobID, "run_id", runID)
}

// NewConsole builds a colorized terminal logger for CLI diagnostics
// (e.g. the "daemon" subcommand's foreground startup/shutdown messages),
// distinct from the file-based daemon/job event logs above. verbose
// lowers the level floor to Debug; otherwise only Info and above print.
func NewConsole(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := NewColorTextHandler(w, &slog.HandlerOptions{Level: level}, true)
	return slog.New(handler)
}

// lineHandler is a slog.Handler that renders each record as
// "YYYY-MM-DD HH:MM:SS±TZ LEVEL job_id=X run_id=Y message" and appends
// it to a file named "<prefix>-YYYY-MM-DD.log" (dated by record time).
type lineHandler struct {
	dir    string
	prefix string
	attrs  []slog.Attr
}

func newLineHandler(dir, prefix string) *lineHandler {
	return &lineHandler{dir: dir, prefix: prefix}
}

func (h *lineHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	line := formatLine(r, h.attrs)
	name := fmt.Sprintf("%s-%s.log", h.prefix, r.Time.Format("2006-01-02"))
	path := filepath.Join(h.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = f.WriteString(line + "\n")
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *lineHandler) WithGroup(string) slog.Handler { return h }

func formatLine(r slog.Record, bound []slog.Attr) string {
	var jobID, runID string
	extract := func(a slog.Attr) bool {
		switch a.Key {
		case "job_id":
			jobID = a.Value.String()
		case "run_id":
			runID = a.Value.String()
		}
		return true
	}
	for _, a := range bound {
		extract(a)
	}
	r.Attrs(extract)

	var b strings.Builder
	b.WriteString(r.Time.Format("2006-01-02 15:04:05Z07:00"))
	b.WriteByte(' ')
	b.WriteString(r.Level.String())
	if jobID != "" {
		fmt.Fprintf(&b, " job_id=%s", jobID)
	}
	if runID != "" {
		fmt.Fprintf(&b, " run_id=%s", runID)
	}
	b.WriteByte(' ')
	b.WriteString(r.Message)
	return b.String()
}

// Cleanup deletes daemon-*.log and job-*.log files under dir whose
// embedded date is older than keepDays, per spec.md §6's retention rule.
func Cleanup(dir string, keepDays int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	today := time.Now().Local()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		dateStr, ok := logDate(name)
		if !ok {
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			continue
		}
		if int(today.Sub(date).Hours()/24) > keepDays {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
	return nil
}

func logDate(name string) (string, bool) {
	for _, prefix := range []string{"daemon-", "job-"} {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".log") {
			return strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".log"), true
		}
	}
	return "", false
}
