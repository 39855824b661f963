// Package follow watches a note file and reports when it changes.
package follow

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called after the watched note was created or written.
// kind is one of "created", "updated", "removed".
type ChangeCallback func(kind string)

// Watch watches the directory containing path and calls cb for every event on
// path itself until ctx is cancelled. The backup artifact and temp files
// written next to the note are ignored; a restore shows up as a create of
// the note via rename.
func Watch(ctx context.Context, path string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Watching the directory survives the rename-over used by restores.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("follow: started", slog.String("path", abs))

	for {
		select {
		case <-ctx.Done():
			logger.Info("follow: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}

			var kind string
			switch {
			case ev.Op&fsnotify.Create != 0:
				kind = "created"
			case ev.Op&fsnotify.Write != 0:
				kind = "updated"
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				kind = "removed"
			default:
				continue
			}
			logger.Debug("follow: event", slog.String("path", abs), slog.String("op", kind))
			if cb != nil {
				cb(kind)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("follow: error", slog.String("error", watchErr.Error()))
		}
	}
}
