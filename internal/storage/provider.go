// Package storage implements backup-protected appends to journal files.
package storage

import "github.com/starford/lines/internal/models"

// Journal is the interface for journal file operations. Paths are absolute.
type Journal interface {
	// Append writes text plus a line terminator to the end of path. The previous
	// contents are backed up first and restored if the write fails.
	Append(path, text string) error
	// Tail returns the last n lines of path in their original order.
	Tail(path string, n int) ([]string, error)
	// Exists reports whether path is present on disk.
	Exists(path string) (bool, error)
	// HasStaleBackup reports whether a backup left by an earlier append is on disk.
	HasStaleBackup(path string) (bool, error)
	// Recover settles a stale backup: an interrupted append is rolled back, a
	// completed one keeps its entry and only loses the backup.
	Recover(path string) (Recovery, error)
	// List returns metadata for every note under dir.
	List(dir string) ([]models.NoteMetadata, error)
}

// Recovery is the outcome of settling a stale backup.
type Recovery int

const (
	// RecoveryNone means there was no backup.
	RecoveryNone Recovery = iota
	// RecoveryRestored means the note was rolled back to the backup.
	RecoveryRestored
	// RecoveryDiscarded means the append had completed; the backup was removed
	// and the note left as is.
	RecoveryDiscarded
)

func (r Recovery) String() string {
	switch r {
	case RecoveryRestored:
		return "restored"
	case RecoveryDiscarded:
		return "discarded"
	default:
		return "none"
	}
}

// Verify *FS satisfies Journal at compile time.
var _ Journal = (*FS)(nil)
