package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/starford/lines/internal/apperr"
	"github.com/starford/lines/internal/checksum"
	"github.com/starford/lines/internal/models"
)

// BackupSuffix is appended to a note's full path to name its backup artifact.
// Suffixing the whole name keeps the backup distinct from any note extension.
const BackupSuffix = ".lines-bak"

// appendFile is the subset of *os.File used for the append write.
type appendFile interface {
	io.Writer
	Sync() error
	Close() error
}

// FS implements Journal backed by the local file system.
type FS struct {
	ext    string // extension of notes reported by List
	logger *slog.Logger

	openAppend func(path string) (appendFile, error)
	replace    func(path string, content []byte) error
	remove     func(path string) error
}

// NewFS creates a new FS. ext selects which files List reports, e.g. ".txt".
func NewFS(ext string, logger *slog.Logger) *FS {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &FS{
		ext:        ext,
		logger:     logger,
		openAppend: openAppend,
		replace:    replaceFile,
		remove:     os.Remove,
	}
}

// BackupPath returns the backup artifact path for a note.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Append writes text and a line terminator to the end of path.
//
// Existing contents are copied to the backup artifact before the note is
// touched. The backup is removed once the write succeeds; if the write fails
// the note is restored from it. A note that did not exist before the call is
// removed again on failure.
//
// A backup left by an earlier append that did complete is removed first. One
// left by an interrupted append blocks the call until Recover settles it.
func (f *FS) Append(path, text string) error {
	bak := BackupPath(path)

	stale, err := f.HasStaleBackup(path)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrBackupFailed, err)
	}
	if stale {
		completed, err := f.completed(path, bak)
		if err != nil {
			return fmt.Errorf("%w: %w", apperr.ErrBackupFailed, err)
		}
		if !completed {
			return fmt.Errorf("%w: %w: %s", apperr.ErrBackupFailed, apperr.ErrStaleBackup, bak)
		}
		if err := f.remove(bak); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w: %s: %w", apperr.ErrBackupFailed, apperr.ErrCleanupFailed, bak, err)
		}
		f.logger.Info("removed backup of completed append", slog.String("backup", bak))
	}

	existed, err := f.backup(path, bak)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrBackupFailed, path, err)
	}

	if werr := f.write(path, text); werr != nil {
		f.logger.Warn("append failed, restoring",
			slog.String("path", path),
			slog.String("error", werr.Error()))
		restoreErr, cleanupErr := f.restore(path, bak, existed)
		if restoreErr != nil {
			f.logger.Error("restore failed",
				slog.String("path", path),
				slog.String("backup", bak),
				slog.String("error", restoreErr.Error()))
			return fmt.Errorf("%w: %s: %w (after %w: %w)",
				apperr.ErrRestoreFailed, path, restoreErr, apperr.ErrAppendFailed, werr)
		}
		if cleanupErr != nil {
			return fmt.Errorf("%w: %s: %w; %w: %w",
				apperr.ErrAppendFailed, path, werr, apperr.ErrCleanupFailed, cleanupErr)
		}
		return fmt.Errorf("%w: %s: %w", apperr.ErrAppendFailed, path, werr)
	}

	if existed {
		if err := f.remove(bak); err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("backup cleanup failed",
				slog.String("backup", bak),
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: %s: %w", apperr.ErrCleanupFailed, bak, err)
		}
	}

	f.logger.Debug("appended", slog.String("path", path), slog.Int("bytes", len(text)+1))
	return nil
}

// backup copies path to bak and verifies the copy. It reports whether path
// existed; a missing note needs no backup.
func (f *FS) backup(path, bak string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return true, fmt.Errorf("read note: %w", err)
	}
	digest := checksum.Sum(data)

	success := false
	defer func() {
		if !success {
			_ = os.Remove(bak)
		}
	}()

	out, err := os.OpenFile(bak, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return true, fmt.Errorf("create backup: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return true, fmt.Errorf("write backup: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return true, fmt.Errorf("fsync backup: %w", err)
	}
	if err := out.Close(); err != nil {
		return true, fmt.Errorf("close backup: %w", err)
	}

	written, err := os.ReadFile(bak)
	if err != nil {
		return true, fmt.Errorf("verify backup: %w", err)
	}
	if got := checksum.Sum(written); got != digest {
		return true, fmt.Errorf("verify backup: %s: checksum %s, want %s", bak, got, digest)
	}

	success = true
	return true, nil
}

func (f *FS) write(path, text string) error {
	w, err := f.openAppend(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if _, err := io.WriteString(w, text+"\n"); err != nil {
		_ = w.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Sync(); err != nil {
		_ = w.Close()
		return fmt.Errorf("fsync: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// restore puts path back into its pre-append state. The backup is only
// removed once the note has been restored from it.
func (f *FS) restore(path, bak string, existed bool) (restoreErr, cleanupErr error) {
	if !existed {
		if err := f.remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove partial note: %w", err), nil
		}
		return nil, nil
	}

	data, err := os.ReadFile(bak)
	if err != nil {
		return fmt.Errorf("read backup: %w", err), nil
	}
	if err := f.replace(path, data); err != nil {
		return fmt.Errorf("replace note: %w", err), nil
	}
	if err := f.remove(bak); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return nil, nil
}

// HasStaleBackup reports whether a backup artifact exists for path. Outside an
// in-flight Append this means an earlier append was interrupted, or completed
// without its backup being removed.
func (f *FS) HasStaleBackup(path string) (bool, error) {
	return exists(BackupPath(path))
}

// Recover settles the stale backup of path. When the note holds the backup
// plus one complete entry, or is unchanged, the append finished and only the
// backup is removed. Any other state is an interrupted append and the note is
// rolled back to the backup.
func (f *FS) Recover(path string) (Recovery, error) {
	bak := BackupPath(path)
	stale, err := exists(bak)
	if err != nil || !stale {
		return RecoveryNone, err
	}

	completed, err := f.completed(path, bak)
	if err != nil {
		return RecoveryNone, fmt.Errorf("%w: %w", apperr.ErrRestoreFailed, err)
	}
	if completed {
		if err := f.remove(bak); err != nil {
			return RecoveryNone, fmt.Errorf("%w: %s: %w", apperr.ErrCleanupFailed, bak, err)
		}
		f.logger.Info("removed backup of completed append", slog.String("path", path))
		return RecoveryDiscarded, nil
	}

	data, err := os.ReadFile(bak)
	if err != nil {
		return RecoveryNone, fmt.Errorf("%w: read backup %s: %w", apperr.ErrRestoreFailed, bak, err)
	}
	if err := f.replace(path, data); err != nil {
		return RecoveryNone, fmt.Errorf("%w: %s: %w", apperr.ErrRestoreFailed, path, err)
	}
	if err := f.remove(bak); err != nil {
		return RecoveryRestored, fmt.Errorf("%w: %s: %w", apperr.ErrCleanupFailed, bak, err)
	}
	f.logger.Info("recovered from backup", slog.String("path", path))
	return RecoveryRestored, nil
}

// completed reports whether the append that left bak behind reached the note.
func (f *FS) completed(path, bak string) (bool, error) {
	backup, err := os.ReadFile(bak)
	if err != nil {
		return false, fmt.Errorf("read backup %s: %w", bak, err)
	}
	note, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read note %s: %w", path, err)
	}
	return appendCompleted(note, backup), nil
}

// appendCompleted reports whether note is backup with at most one complete
// line added. A partial line, or any change to the backed up bytes, is not.
func appendCompleted(note, backup []byte) bool {
	tail, ok := bytes.CutPrefix(note, backup)
	if !ok {
		return false
	}
	if len(tail) == 0 {
		return true
	}
	return bytes.IndexByte(tail, '\n') == len(tail)-1
}

// Exists reports whether path is present on disk.
func (f *FS) Exists(path string) (bool, error) {
	return exists(path)
}

// Tail returns the last n lines of path. A missing file or content that is
// not valid UTF-8 is an error; the file is only read.
func (f *FS) Tail(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrRead, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %w: %s", apperr.ErrRead, apperr.ErrInvalidText, path)
	}
	if n <= 0 {
		return []string{}, nil
	}
	lines := splitLines(string(data))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// splitLines splits on line terminators. A final terminator does not start
// another line.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// List walks dir and returns metadata for every note with the FS extension.
func (f *FS) List(dir string) ([]models.NoteMetadata, error) {
	var out []models.NoteMetadata
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), f.ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		stale, err := f.HasStaleBackup(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, p)
		out = append(out, models.NoteMetadata{
			Path:        rel,
			Size:        info.Size(),
			Checksum:    checksum.Sum(data),
			UpdatedAt:   info.ModTime(),
			StaleBackup: stale,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

func openAppend(path string) (appendFile, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
}

// replaceFile atomically swaps content into path: tmp file → fsync → rename.
// The original permission bits are kept when path exists.
func replaceFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".lines-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if info, err := os.Stat(path); err == nil {
		if err := tmp.Chmod(info.Mode().Perm()); err != nil {
			return fmt.Errorf("chmod temp: %w", err)
		}
	}
	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	success = true
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
