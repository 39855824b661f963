// Package models defines the domain types for lines.
package models

import "time"

// NoteMetadata describes a journal file on disk.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
	// StaleBackup is set when a backup artifact from an interrupted append
	// still sits next to the note.
	StaleBackup bool `json:"stale_backup"`
}
