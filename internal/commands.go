package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/starford/lines/internal/apperr"
	"github.com/starford/lines/internal/follow"
	"github.com/starford/lines/internal/launcher"
	"github.com/starford/lines/internal/storage"
)

// Files opens dir, or the notes directory when dir is empty, in the host's
// file manager.
func Files(ctx context.Context, dir string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	kind, err := launcher.Detect(app.goos, app.getenv)
	if err != nil {
		return err
	}

	if dir == "" {
		if dir, err = app.notesDir(); err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %s: %w", apperr.ErrDirectoryCreation, dir, err)
		}
	}

	logger.Info("opening file manager", slog.String("launcher", kind.String()), slog.String("dir", dir))
	return launcher.Open(ctx, kind, dir)
}

// Follow prints the tail of the note for token and prints it again whenever
// the note changes, until ctx is cancelled or the process is interrupted.
func Follow(ctx context.Context, token string, opts ...Option) error {
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
	if err := app.printTail(store, path); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return follow.Watch(gCtx, path, logger, func(kind string) {
			if kind == "removed" {
				fmt.Fprintf(app.stdout, "-- %s was removed --\n", path)
				return
			}
			if err := app.printTail(store, path); err != nil {
				logger.Warn("follow: tail failed", slog.String("path", path), slog.String("error", err.Error()))
			}
		})
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	return g.Wait()
}

func (a *application) printTail(store storage.Journal, path string) error {
	lines, err := store.Tail(path, a.config.Notes.TailLines)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "-- %s --\n", path)
	for _, l := range lines {
		fmt.Fprintln(a.stdout, l)
	}
	return nil
}

// Check lists the notes in the notes directory and flags every note left
// with a backup by an interrupted append.
func Check(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	dir, err := app.notesDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrDirectoryCreation, dir, err)
	}

	store := storage.NewFS(app.config.Notes.Extension, logger)
	notes, err := store.List(dir)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(app.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NOTE\tSIZE\tUPDATED\tSTATUS")
	stale := 0
	for _, n := range notes {
		status := "ok"
		if n.StaleBackup {
			status = "stale backup"
			stale++
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", n.Path, n.Size, n.UpdatedAt.Format("2006-01-02 15:04"), status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if stale > 0 {
		logger.Warn("stale backups found", slog.Int("count", stale), slog.String("dir", dir))
		fmt.Fprintf(app.stdout, "\n%d note(s) have a backup from an interrupted write; see `lines recover <note>`.\n", stale)
	}
	return nil
}

// Recover settles the backup an earlier append left next to the note for
// token. An interrupted append is rolled back; a completed one is kept.
func Recover(_ context.Context, token string, opts ...Option) error {
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
	outcome, err := store.Recover(path)
	if err != nil {
		return err
	}
	switch outcome {
	case storage.RecoveryRestored:
		fmt.Fprintf(app.stdout, "%s: restored from %s\n", path, storage.BackupPath(path))
	case storage.RecoveryDiscarded:
		fmt.Fprintf(app.stdout, "%s: last entry was saved; removed %s\n", path, storage.BackupPath(path))
	default:
		fmt.Fprintf(app.stdout, "%s: nothing to recover\n", path)
	}
	return nil
}
