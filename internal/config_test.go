package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	pkgconfig "github.com/starford/lines/pkg/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestNotesConfig_Extension(t *testing.T) {
	for _, ext := range []string{".txt", ".md", ".log"} {
		cfg := NewDefaultConfig().Notes
		cfg.Extension = ext
		if err := cfg.Validate(); err != nil {
			t.Errorf("extension %q should pass: %v", ext, err)
		}
	}
	for _, ext := range []string{"", "txt", ".", "./x", ".a b"} {
		cfg := NewDefaultConfig().Notes
		cfg.Extension = ext
		if err := cfg.Validate(); err == nil {
			t.Errorf("extension %q should fail", ext)
		}
	}
}

func TestNotesConfig_TailLines(t *testing.T) {
	cfg := NewDefaultConfig().Notes
	cfg.TailLines = 0
	if err := cfg.Validate(); err == nil {
		t.Error("tail_lines 0 should fail")
	}
}

func TestNotesConfig_AppNameRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Notes.AppName = ""
	if err := cfg.Validate(); err == nil {
		t.Error("full config validate should catch missing app_name")
	}
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("LINES_TEST_NOTES", "/srv/notes")
	yaml := "app:\n  log_level: debug\nnotes:\n  dir: ${LINES_TEST_NOTES}\n  tail_lines: 25\nsession:\n  clear_screen: false\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.Notes.Dir != "/srv/notes" || cfg.Notes.TailLines != 25 {
		t.Errorf("notes = %+v", cfg.Notes)
	}
	if cfg.Notes.Extension != ".txt" || cfg.Notes.AppName != "lines" {
		t.Errorf("defaults lost: %+v", cfg.Notes)
	}
	if cfg.Session.ClearScreen {
		t.Error("clear_screen should be false")
	}
}
