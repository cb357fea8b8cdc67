// Package requests implements the drop-file manual-run protocol
// (spec.md §4.6): a client writes {"job_id": "<id>"} to a uniquely named
// file under the requests directory, and the daemon collects, deletes,
// and dispatches each one on its next tick.
package requests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type request struct {
	JobID string `json:"job_id"`
}

// Submit writes a drop-file requesting jobID be run, under a
// uuid-derived name so concurrent clients never collide.
func Submit(requestsDir, jobID string) error {
	name := fmt.Sprintf("%s.json", uuid.NewString())
	path := filepath.Join(requestsDir, name)

	body, err := json.Marshal(request{JobID: jobID})
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

// Collect reads every regular *.json file under dir, parses each as a
// request, and deletes it regardless of parse outcome so malformed
// drop-files ("poison files") never loop. The returned slice preserves
// directory listing order and may contain duplicates if a client dropped
// more than one file for the same job.
func Collect(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read requests dir %s: %w", dir, err)
	}

	var jobIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.ToLower(filepath.Ext(name)) != ".json" {
			continue
		}
		path := filepath.Join(dir, name)

		raw, readErr := os.ReadFile(path)
		_ = os.Remove(path)
		if readErr != nil {
			continue
		}

		var req request
		if err := json.Unmarshal(raw, &req); err != nil || req.JobID == "" {
			continue
		}
		jobIDs = append(jobIDs, req.JobID)
	}
	return jobIDs, nil
}
