// Package paths resolves the on-disk layout under a single base
// directory (spec.md §6), so every other component receives one
// immutable configuration value instead of discovering paths itself.
package paths

import (
	"os"
	"path/filepath"
)

// Layout is the fully resolved set of paths under a base directory.
type Layout struct {
	BaseDir      string
	JobsDir      string
	LogsDir      string
	RunDir       string
	RequestsDir  string
	PIDFile      string
	StateFile    string
}

// New resolves the layout rooted at baseDir. baseDir need not exist yet;
// call EnsureDirs to create it.
func New(baseDir string) (Layout, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return Layout{}, err
	}
	runDir := filepath.Join(abs, "run")
	return Layout{
		BaseDir:     abs,
		JobsDir:     filepath.Join(abs, "jobs"),
		LogsDir:     filepath.Join(abs, "logs"),
		RunDir:      runDir,
		RequestsDir: filepath.Join(runDir, "requests"),
		PIDFile:     filepath.Join(runDir, "daemon.pid"),
		StateFile:   filepath.Join(runDir, "state.json"),
	}, nil
}

// EnsureDirs creates every directory in the layout that doesn't exist.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.JobsDir, l.LogsDir, l.RunDir, l.RequestsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
