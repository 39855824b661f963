// Package session runs the interactive prompt loop: every line typed is
// appended to the note and the note's tail is shown again.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/starford/lines/internal/apperr"
	"github.com/starford/lines/internal/storage"
)

const (
	clearScreen = "\x1b[2J\x1b[1;1H"
	prompt      = "> "
)

// IsExit reports whether input is one of the exit keywords. Matching is
// case-sensitive.
func IsExit(input string) bool {
	switch input {
	case "q", "quit", "exit":
		return true
	}
	return false
}

// Settings control how the session renders.
type Settings struct {
	TailLines   int
	ClearScreen bool
}

// Session is a single-writer prompt loop over one note.
type Session struct {
	journal  storage.Journal
	path     string
	settings Settings
	in       io.Reader
	out      io.Writer
	logger   *slog.Logger
}

// New creates a session appending to path through journal.
func New(journal storage.Journal, path string, settings Settings, in io.Reader, out io.Writer, logger *slog.Logger) *Session {
	return &Session{
		journal:  journal,
		path:     path,
		settings: settings,
		in:       in,
		out:      out,
		logger:   logger,
	}
}

// Run reads lines until an exit keyword, end of input or cancellation.
// Failures of individual appends are reported and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	if stale, err := s.journal.HasStaleBackup(s.path); err != nil {
		s.logger.Warn("stale backup check failed", slog.String("error", err.Error()))
	} else if stale {
		s.logger.Warn("stale backup found", slog.String("path", s.path))
		fmt.Fprintf(s.out, "warning: %s has a backup left by an earlier write (%s).\n", s.path, storage.BackupPath(s.path))
		fmt.Fprintln(s.out, "It is removed with the next entry if that write completed; otherwise run `lines recover`.")
	}

	s.render()

	// Lines have no length limit; a final line without a terminator still counts.
	reader := bufio.NewReader(s.in)

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(s.out, prompt)
		raw, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return fmt.Errorf("session: read input: %w", err)
		}
		if err != nil && raw == "" {
			fmt.Fprintln(s.out)
			return nil
		}

		line := strings.TrimSpace(raw)
		if IsExit(line) {
			fmt.Fprintln(s.out, "Exiting editor...")
			return nil
		}
		if line == "" {
			continue
		}

		if err := s.journal.Append(s.path, line); err != nil {
			if saved := s.report(err); !saved {
				continue
			}
		}
		s.render()
	}
}

// render redraws the banner and the note's tail.
func (s *Session) render() {
	if s.shouldClear() {
		fmt.Fprint(s.out, clearScreen)
	}
	fmt.Fprintln(s.out, "Lines  '(q)uit' | 'exit'")
	fmt.Fprintf(s.out, "File: %s\n\n", s.path)

	lines, err := s.journal.Tail(s.path, s.settings.TailLines)
	if err != nil {
		s.logger.Warn("tail failed", slog.String("path", s.path), slog.String("error", err.Error()))
		fmt.Fprintf(s.out, "error displaying file: %v\n", err)
		return
	}
	for _, l := range lines {
		fmt.Fprintln(s.out, l)
	}
}

// report tells the user what happened to a failed append and whether the
// entry made it into the note anyway.
func (s *Session) report(err error) bool {
	switch {
	case errors.Is(err, apperr.ErrRestoreFailed):
		s.logger.Error("note state unknown", slog.String("path", s.path), slog.String("error", err.Error()))
		fmt.Fprintf(s.out, "ERROR: the write failed and %s could not be restored.\n", s.path)
		fmt.Fprintf(s.out, "Inspect it and %s manually before continuing: %v\n", storage.BackupPath(s.path), err)
		return false
	case errors.Is(err, apperr.ErrStaleBackup):
		s.logger.Warn("append refused", slog.String("path", s.path), slog.String("error", err.Error()))
		fmt.Fprintf(s.out, "entry not saved: a backup from an interrupted write exists; run `lines recover %s`\n", s.path)
		return false
	case errors.Is(err, apperr.ErrCleanupFailed) &&
		!errors.Is(err, apperr.ErrAppendFailed) && !errors.Is(err, apperr.ErrBackupFailed):
		s.logger.Warn("backup cleanup failed", slog.String("path", s.path), slog.String("error", err.Error()))
		fmt.Fprintf(s.out, "warning: entry saved but the backup could not be removed (retried with the next entry): %v\n", err)
		return true
	default:
		s.logger.Warn("append failed", slog.String("path", s.path), slog.String("error", err.Error()))
		fmt.Fprintf(s.out, "entry not saved: %v\n", err)
		return false
	}
}

func (s *Session) shouldClear() bool {
	if !s.settings.ClearScreen {
		return false
	}
	f, ok := s.out.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
