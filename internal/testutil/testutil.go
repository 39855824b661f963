// Package testutil provides shared test helpers for setting up note directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// LeapDay is a fixed clock at 2024-02-29 09:00 UTC.
func LeapDay() time.Time {
	return time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)
}

// TestHome creates a temporary home directory and returns it together with an
// environment lookup that reports it as HOME.
func TestHome(t *testing.T) (string, func(string) string) {
	t.Helper()
	home := t.TempDir()
	return home, func(key string) string {
		if key == "HOME" {
			return home
		}
		return ""
	}
}

// NotesDir returns the default notes directory under home for app.
func NotesDir(home, app string) string {
	return filepath.Join(home, "Documents", app)
}

// WriteFile creates path (and its parent directories) with content.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ReadFile returns the content of path, failing the test if it cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
