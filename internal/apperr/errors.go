// Package apperr holds the sentinel errors shared across the journal packages.
// Callers classify failures with errors.Is; the concrete cause is always wrapped.
package apperr

import "errors"

var (
	ErrConfiguration     = errors.New("configuration error")
	ErrDirectoryCreation = errors.New("directory creation failed")

	// ErrBackupFailed means the append was aborted before the note was touched.
	ErrBackupFailed = errors.New("backup failed")
	// ErrStaleBackup means a backup from an interrupted append is still on disk.
	ErrStaleBackup = errors.New("stale backup present")
	// ErrAppendFailed means the write failed and the note was restored.
	ErrAppendFailed = errors.New("append failed")
	// ErrRestoreFailed means restoring after a failed write also failed;
	// the note's state is unknown and needs manual inspection.
	ErrRestoreFailed = errors.New("restore failed")
	// ErrCleanupFailed means the entry was written but the backup could not be removed.
	ErrCleanupFailed = errors.New("cleanup failed")

	ErrRead        = errors.New("read failed")
	ErrInvalidText = errors.New("invalid utf-8 text")

	ErrUnsupportedPlatform = errors.New("unsupported platform")
)
