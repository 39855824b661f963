// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/starford/lines/internal/datestamp"
	"github.com/starford/lines/internal/header"
	"github.com/starford/lines/internal/notepath"
	"github.com/starford/lines/internal/session"
	"github.com/starford/lines/internal/storage"
)

// Run resolves the note for token, writes its header if the note is new and
// runs the interactive session on it. Startup failures are returned before
// any prompt is shown.
func Run(ctx context.Context, token string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	path, err := app.resolve(token)
	if err != nil {
		return err
	}

	store := storage.NewFS(app.config.Notes.Extension, logger)
	if err := app.prepareNote(store, path); err != nil {
		return err
	}

	logger.Info("session starting", slog.String("path", path))

	s := session.New(store, path, session.Settings{
		TailLines:   app.config.Notes.TailLines,
		ClearScreen: app.config.Session.ClearScreen,
	}, app.stdin, app.stdout, logger)

	if err := s.Run(ctx); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	logger.Info("session finished", slog.String("path", path))
	return nil
}

func newApplication(opts []Option) (*application, error) {
	app := &application{
		getenv: os.Getenv,
		now:    time.Now,
		goos:   runtime.GOOS,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := app.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if app.headerDirs == nil {
		app.headerDirs = defaultHeaderDirs()
	}
	return app, nil
}

// logger builds the structured JSON logger. Logs go to stderr so they never
// interleave with the note tail on stdout.
func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.stderr, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func (a *application) notesDir() (string, error) {
	if a.config.Notes.Dir != "" {
		return a.config.Notes.Dir, nil
	}
	return notepath.NotesDir(a.getenv, a.config.Notes.AppName)
}

func (a *application) resolve(token string) (string, error) {
	dir, err := a.notesDir()
	if err != nil {
		return "", err
	}
	r := &notepath.Resolver{Dir: dir, Ext: a.config.Notes.Extension, Now: a.now}
	return r.Resolve(token)
}

// prepareNote writes the header and a blank line to a note that does not
// exist yet.
func (a *application) prepareNote(store storage.Journal, path string) error {
	exists, err := store.Exists(path)
	if err != nil {
		return fmt.Errorf("stat note: %w", err)
	}
	if exists {
		return nil
	}

	c := &header.Composer{Sources: a.headerSources()}
	text, err := c.Compose(datestamp.Today(a.now))
	if err != nil {
		return err
	}
	if err := store.Append(path, text+"\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func (a *application) headerSources() []string {
	name := a.config.Notes.HeaderFile
	if name == "" {
		return nil
	}
	if filepath.IsAbs(name) {
		return []string{name}
	}
	sources := make([]string, 0, len(a.headerDirs))
	for _, dir := range a.headerDirs {
		sources = append(sources, filepath.Join(dir, name))
	}
	return sources
}

// defaultHeaderDirs prefers the executable's directory over the working
// directory.
func defaultHeaderDirs() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	return dirs
}
