// Package watcher coalesces filesystem change notifications on the jobs
// directory into a single per-tick reload signal (spec.md §4.5).
package watcher

import (
	"github.com/fsnotify/fsnotify"
)

// Watcher wraps an fsnotify.Watcher scoped to one non-recursive directory.
type Watcher struct {
	fsw *fsnotify.Watcher
}

// New starts watching dir (non-recursively). Callers must call Close.
func New(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{fsw: fsw}, nil
}

// Close stops the underlying watch.
func (w *Watcher) Close() error { return w.fsw.Close() }

// Drain reads every pending event and error non-blockingly and collapses
// them into a single boolean: true if any event or error occurred since
// the previous call. Watcher errors are treated as events (conservative
// reload) so a watch glitch never silently suppresses a real change.
func (w *Watcher) Drain() bool {
	changed := false
	for {
		select {
		case _, ok := <-w.fsw.Events:
			if !ok {
				return changed
			}
			changed = true
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return changed
			}
			changed = true
		default:
			return changed
		}
	}
}
