package internal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/lines/internal/apperr"
	"github.com/starford/lines/internal/storage"
	"github.com/starford/lines/internal/testutil"
)

// testOptions wires a temp home, a fixed clock and in-memory streams.
func testOptions(t *testing.T, input string, out io.Writer) (string, []Option) {
	t.Helper()
	home, getenv := testutil.TestHome(t)
	return home, []Option{
		WithConfig(NewDefaultConfig()),
		WithEnv(getenv),
		WithClock(testutil.LeapDay),
		WithHeaderDirs(t.TempDir()),
		WithIO(strings.NewReader(input), out, io.Discard),
	}
}

func TestRun_NewDatedNoteGetsHeader(t *testing.T) {
	var out bytes.Buffer
	home, opts := testOptions(t, "q\n", &out)

	if err := Run(context.Background(), "", opts...); err != nil {
		t.Fatalf("Run: %v", err)
	}

	path := filepath.Join(testutil.NotesDir(home, "lines"), "2024_02_29.txt")
	if got := testutil.ReadFile(t, path); got != "# 2024_02_29\n\n" {
		t.Errorf("content = %q, want %q", got, "# 2024_02_29\n\n")
	}
	if !strings.Contains(out.String(), "File: "+path) {
		t.Errorf("banner missing path:\n%s", out.String())
	}
}

func TestRun_NamedNoteAppendsEntries(t *testing.T) {
	var out bytes.Buffer
	home, opts := testOptions(t, "hello\nworld\nexit\n", &out)

	if err := Run(context.Background(), "pta_meeting", opts...); err != nil {
		t.Fatalf("Run: %v", err)
	}

	path := filepath.Join(testutil.NotesDir(home, "lines"), "pta_meeting_2024_02_29.txt")
	if got := testutil.ReadFile(t, path); got != "# 2024_02_29\n\nhello\nworld\n" {
		t.Errorf("content = %q", got)
	}
	if _, err := os.Stat(storage.BackupPath(path)); !os.IsNotExist(err) {
		t.Errorf("backup left behind: %v", err)
	}
}

func TestRun_NestedNameCreatesSubdirectory(t *testing.T) {
	var out bytes.Buffer
	home, opts := testOptions(t, "hello\nq\n", &out)

	if err := Run(context.Background(), "work/standup", opts...); err != nil {
		t.Fatalf("Run: %v", err)
	}

	path := filepath.Join(testutil.NotesDir(home, "lines"), "work", "standup_2024_02_29.txt")
	if got := testutil.ReadFile(t, path); got != "# 2024_02_29\n\nhello\n" {
		t.Errorf("content = %q", got)
	}
}

func TestRun_ExistingFileUsedVerbatim(t *testing.T) {
	var out bytes.Buffer
	_, opts := testOptions(t, "hello\nq\n", &out)
	path := filepath.Join(t.TempDir(), "todo.md")
	testutil.WriteFile(t, path, "a\nb\n")

	if err := Run(context.Background(), path, opts...); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := testutil.ReadFile(t, path); got != "a\nb\nhello\n" {
		t.Errorf("content = %q, want %q", got, "a\nb\nhello\n")
	}
}

func TestRun_HeaderFileContent(t *testing.T) {
	var out bytes.Buffer
	home, opts := testOptions(t, "q\n", &out)
	exeDir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(exeDir, "header.txt"), "gratitude:\n")
	opts = append(opts, WithHeaderDirs(exeDir, t.TempDir()))

	if err := Run(context.Background(), "", opts...); err != nil {
		t.Fatalf("Run: %v", err)
	}

	path := filepath.Join(testutil.NotesDir(home, "lines"), "2024_02_29.txt")
	if got := testutil.ReadFile(t, path); got != "# 2024_02_29\ngratitude:\n\n" {
		t.Errorf("content = %q", got)
	}
}

func TestRun_NoHomeIsFatal(t *testing.T) {
	var out bytes.Buffer
	_, opts := testOptions(t, "hello\n", &out)
	opts = append(opts, WithEnv(func(string) string { return "" }))

	err := Run(context.Background(), "", opts...)
	if !errors.Is(err, apperr.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if strings.Contains(out.String(), "> ") {
		t.Error("prompt shown despite startup failure")
	}
}

func TestRun_ConfiguredNotesDir(t *testing.T) {
	var out bytes.Buffer
	_, opts := testOptions(t, "q\n", &out)
	cfg := NewDefaultConfig()
	cfg.Notes.Dir = filepath.Join(t.TempDir(), "journal")
	cfg.Notes.Extension = ".log"
	opts = append(opts, WithConfig(cfg), WithEnv(func(string) string { return "" }))

	if err := Run(context.Background(), "", opts...); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Notes.Dir, "2024_02_29.log")); err != nil {
		t.Errorf("note not created in configured dir: %v", err)
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background(), ""); err == nil {
		t.Error("expected error without config")
	}
}

func TestRun_RejectsInvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Notes.TailLines = -1
	if err := Run(context.Background(), "", WithConfig(cfg)); err == nil {
		t.Error("expected validation error")
	}
}

func TestCheck_ReportsStaleBackups(t *testing.T) {
	var out bytes.Buffer
	home, opts := testOptions(t, "", &out)
	dir := testutil.NotesDir(home, "lines")
	testutil.WriteFile(t, filepath.Join(dir, "2024_02_28.txt"), "# 2024_02_28\n\n")
	testutil.WriteFile(t, filepath.Join(dir, "2024_02_29.txt"), "# 2024_02_29\n\nhal")
	testutil.WriteFile(t, storage.BackupPath(filepath.Join(dir, "2024_02_29.txt")), "# 2024_02_29\n\n")

	if err := Check(context.Background(), opts...); err != nil {
		t.Fatalf("Check: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "2024_02_28.txt") || !strings.Contains(got, "stale backup") {
		t.Errorf("unexpected report:\n%s", got)
	}
	if !strings.Contains(got, "1 note(s)") {
		t.Errorf("stale count missing:\n%s", got)
	}
}

func TestRecover_RestoresBackup(t *testing.T) {
	var out bytes.Buffer
	home, opts := testOptions(t, "", &out)
	path := filepath.Join(testutil.NotesDir(home, "lines"), "2024_02_29.txt")
	testutil.WriteFile(t, path, "# 2024_02_29\n\nhal")
	testutil.WriteFile(t, storage.BackupPath(path), "# 2024_02_29\n\n")

	if err := Recover(context.Background(), "", opts...); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if got := testutil.ReadFile(t, path); got != "# 2024_02_29\n\n" {
		t.Errorf("content = %q", got)
	}
	if !strings.Contains(out.String(), "restored") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := Recover(context.Background(), "", opts...); err != nil {
		t.Fatalf("second Recover: %v", err)
	}
	if !strings.Contains(out.String(), "nothing to recover") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRecover_KeepsCompletedEntry(t *testing.T) {
	var out bytes.Buffer
	home, opts := testOptions(t, "", &out)
	path := filepath.Join(testutil.NotesDir(home, "lines"), "2024_02_29.txt")
	testutil.WriteFile(t, path, "# 2024_02_29\n\nsaved\n")
	testutil.WriteFile(t, storage.BackupPath(path), "# 2024_02_29\n\n")

	if err := Recover(context.Background(), "", opts...); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if got := testutil.ReadFile(t, path); got != "# 2024_02_29\n\nsaved\n" {
		t.Errorf("content = %q", got)
	}
	if !strings.Contains(out.String(), "last entry was saved") {
		t.Errorf("output = %q", out.String())
	}
	if _, err := os.Stat(storage.BackupPath(path)); !os.IsNotExist(err) {
		t.Errorf("backup left behind: %v", err)
	}
}

func TestFiles_UnsupportedPlatform(t *testing.T) {
	var out bytes.Buffer
	_, opts := testOptions(t, "", &out)
	opts = append(opts, WithPlatform("plan9"))

	if err := Files(context.Background(), "", opts...); !errors.Is(err, apperr.ErrUnsupportedPlatform) {
		t.Errorf("err = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestFollow_PrintsTailUntilCancelled(t *testing.T) {
	var out bytes.Buffer
	home, opts := testOptions(t, "", &out)
	path := filepath.Join(testutil.NotesDir(home, "lines"), "2024_02_29.txt")
	testutil.WriteFile(t, path, "# 2024_02_29\n\nfirst\n")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := Follow(ctx, "", opts...); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if !strings.Contains(out.String(), "first") {
		t.Errorf("tail not printed:\n%s", out.String())
	}
}

func TestFollow_MissingNote(t *testing.T) {
	var out bytes.Buffer
	_, opts := testOptions(t, "", &out)

	err := Follow(context.Background(), "nothing_here", opts...)
	if !errors.Is(err, apperr.ErrRead) {
		t.Errorf("err = %v, want ErrRead", err)
	}
}
