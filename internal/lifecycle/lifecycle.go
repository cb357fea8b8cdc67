// Package lifecycle enforces the daemon's singleton invariant and
// mediates its graceful shutdown (spec.md §4.8): only one daemon may
// hold the lockfile at a time, and Stop delivers SIGINT to whichever
// process currently owns it.
package lifecycle

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned by Acquire when another live daemon
// already holds the lockfile.
var ErrAlreadyRunning = errors.New("ezcron: daemon already running")

// Guard holds the acquired lockfile for the process's lifetime. Release
// must run on every exit path to make the PID available again.
type Guard struct {
	path string
	lock *flock.Flock
}

// Acquire reads the lockfile at path. If it names a PID that is still
// alive, Acquire fails with ErrAlreadyRunning. Otherwise it writes the
// current process's PID and returns a Guard whose Release removes the
// lockfile.
func Acquire(path string) (*Guard, error) {
	if pid, ok := readPID(path); ok {
		if pidAlive(pid) {
			return nil, fmt.Errorf("%w: pid %d", ErrAlreadyRunning, pid)
		}
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		if pid, ok := readPID(path); ok && pidAlive(pid) {
			return nil, fmt.Errorf("%w: pid %d", ErrAlreadyRunning, pid)
		}
		return nil, fmt.Errorf("%w: lockfile %s held by another process", ErrAlreadyRunning, path)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("write pidfile %s: %w", path, err)
	}

	return &Guard{path: path, lock: lock}, nil
}

// Release unlocks and removes the lockfile. Safe to call once; intended
// to run via defer so every exit path (including panics) cleans up.
func (g *Guard) Release() {
	_ = g.lock.Unlock()
	_ = os.Remove(g.path)
}

// RunningPID reports the PID of a live daemon owning the lockfile at
// path, or ok=false if no live daemon holds it.
func RunningPID(path string) (pid int, ok bool) {
	pid, found := readPID(path)
	if !found {
		return 0, false
	}
	if !pidAlive(pid) {
		return 0, false
	}
	return pid, true
}

// Stop sends a graceful interrupt (SIGINT) to the PID recorded in the
// lockfile at path.
func Stop(path string) error {
	pid, ok := RunningPID(path)
	if !ok {
		return fmt.Errorf("no running daemon found at %s", path)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(syscall.SIGINT)
}

func readPID(path string) (int, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// pidAlive reports whether pid names a live process, treating EPERM
// (owned by another user but present) as alive.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
