// Package state publishes and reads the daemon's DaemonState snapshot
// (spec.md §4.7). The snapshot is a JSON document — spec.md's "readable
// key-value document" framing describes its content (every field is a
// plain key-value pair a human can scan), not a non-JSON wire format;
// see DESIGN.md for the exact resolution of that wording.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loykin/ezcron/internal/model"
)

// Publish serialises state as indented JSON and replaces path atomically
// via write-to-temp-then-rename, so a reader never observes a
// partially-written file.
func Publish(path string, state model.DaemonState) error {
	body, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Read loads the snapshot at path. A missing or unparsable file is not
// an error a reader should surface raw; Unavailable reports this case so
// callers can fall back to "state unavailable" messaging per spec.md.
func Read(path string) (model.DaemonState, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return model.DaemonState{}, err
	}
	var st model.DaemonState
	if err := json.Unmarshal(body, &st); err != nil {
		return model.DaemonState{}, fmt.Errorf("parse state file %s: %w", path, err)
	}
	return st, nil
}

// Unavailable reports whether err indicates the snapshot simply isn't
// there yet or is transiently unreadable/partial — the conditions
// spec.md §4.7 says a reader must tolerate rather than treat as fatal.
func Unavailable(err error) bool {
	if err == nil {
		return false
	}
	if os.IsNotExist(err) {
		return true
	}
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr)
}
