package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	prevBaseDir := baseDir
	defer func() { baseDir = prevBaseDir }()

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--base-dir", dir}, args...))
	err := root.Execute()
	return buf.String(), err
}

func writeJobFile(t *testing.T, dir, id string) {
	t.Helper()
	job := map[string]any{
		"id":   id,
		"name": id,
		"schedule": map[string]any{
			"type":   "simple",
			"repeat": "everyminute",
		},
		"command": map[string]any{"program": "true"},
	}
	body, err := json.Marshal(job)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "jobs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jobs", id+".json"), body, 0o644))
}

func TestListWithNoJobs(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, dir, "list")
	require.NoError(t, err)
	require.Contains(t, out, "no jobs found")
}

func TestListShowsConfiguredJob(t *testing.T) {
	dir := t.TempDir()
	writeJobFile(t, dir, "backup")
	out, err := runCmd(t, dir, "list")
	require.NoError(t, err)
	require.Contains(t, out, "id=backup")
}

func TestStatusWhenStopped(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, dir, "status")
	require.NoError(t, err)
	require.Contains(t, out, "daemon: stopped")
}

func TestRunInlineJob(t *testing.T) {
	dir := t.TempDir()
	writeJobFile(t, dir, "backup")
	out, err := runCmd(t, dir, "run", "backup")
	require.NoError(t, err)
	require.Contains(t, out, "job=backup")
	require.Contains(t, out, "status=success")
}

func TestVersionCmd(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, dir, "version")
	require.NoError(t, err)
	require.Contains(t, out, "ezcron")
}
