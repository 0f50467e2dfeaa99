// Package testutil provides helper functions for testing.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// TempDir creates a temporary directory and registers a cleanup function.
// The directory is automatically deleted when the test completes.
func TempDir(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "histprune-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Errorf("failed to cleanup temp dir %s: %v", dir, err)
		}
	})

	return dir
}

// WriteHistory writes lines, each followed by a newline, to a history file in
// a fresh temporary directory and returns its path.
func WriteHistory(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(TempDir(t), ".zsh_history")
	WriteFile(t, path, joinLines(lines))
	return path
}

// WriteExitCodes writes a sidecar file next to historyPath mapping each
// timestamp to its exit code, and returns the sidecar path.
func WriteExitCodes(t *testing.T, historyPath string, codes map[string]int) string {
	t.Helper()

	keys := make([]string, 0, len(codes))
	for ts := range codes {
		keys = append(keys, ts)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, ts := range keys {
		lines = append(lines, fmt.Sprintf("%s:%d", ts, codes[ts]))
	}

	path := historyPath + "_exits"
	WriteFile(t, path, joinLines(lines))
	return path
}

// WriteFile writes content to path with mode 0600.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
