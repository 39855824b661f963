// Package header composes the text written at the top of a new note.
package header

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/starford/lines/internal/apperr"
)

// Composer builds note headers. Sources lists candidate header files in
// priority order; the first one present on disk is used.
type Composer struct {
	Sources []string
}

// Compose returns "# {date}", followed on the next line by the contents of the
// first available header source with trailing line breaks removed.
func (c *Composer) Compose(date string) (string, error) {
	head := "# " + date

	extra, err := c.external()
	if err != nil {
		return "", err
	}
	if extra == "" {
		return head, nil
	}
	return head + "\n" + extra, nil
}

func (c *Composer) external() (string, error) {
	for _, src := range c.Sources {
		if src == "" {
			continue
		}
		data, err := os.ReadFile(src)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: header %s: %w", apperr.ErrRead, src, err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return "", nil
}
