// Package notepath decides which file a journal session writes to.
package notepath

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/lines/internal/apperr"
	"github.com/starford/lines/internal/datestamp"
)

const dirPerm = 0o755

// homeVars are consulted in order to locate the user's home directory.
var homeVars = []string{"HOME", "USERPROFILE"}

// NotesDir returns <home>/Documents/<app> using getenv to find the home
// directory. It does not create the directory.
func NotesDir(getenv func(string) string, app string) (string, error) {
	for _, name := range homeVars {
		if home := getenv(name); home != "" {
			return filepath.Join(home, "Documents", app), nil
		}
	}
	return "", fmt.Errorf("%w: could not find home directory (%v not set): %w",
		apperr.ErrConfiguration, homeVars, fs.ErrNotExist)
}

// Resolver maps a command-line token to a note path.
type Resolver struct {
	Dir string           // notes directory
	Ext string           // extension of generated note names, e.g. ".txt"
	Now func() time.Time // clock used for the date stamp
}

// Resolve returns the absolute path of the note for token:
//
//	""              -> {Dir}/{date}{Ext}
//	existing file   -> that file
//	anything else   -> {Dir}/{token}_{date}{Ext}
//
// The notes directory is created on every call, whichever path is returned.
// A token with separators names a note in a subdirectory; that directory is
// created too.
func (r *Resolver) Resolve(token string) (string, error) {
	if err := os.MkdirAll(r.Dir, dirPerm); err != nil {
		return "", fmt.Errorf("%w: %s: %w", apperr.ErrDirectoryCreation, r.Dir, err)
	}

	stamp := datestamp.Today(r.now)

	if token == "" {
		return filepath.Abs(filepath.Join(r.Dir, stamp+r.Ext))
	}

	if info, err := os.Stat(token); err == nil && info.Mode().IsRegular() {
		return filepath.Abs(token)
	}

	p, err := filepath.Abs(filepath.Join(r.Dir, token+"_"+stamp+r.Ext))
	if err != nil {
		return "", err
	}
	if parent := filepath.Dir(p); parent != filepath.Clean(r.Dir) {
		if err := os.MkdirAll(parent, dirPerm); err != nil {
			return "", fmt.Errorf("%w: %s: %w", apperr.ErrDirectoryCreation, parent, err)
		}
	}
	return p, nil
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
