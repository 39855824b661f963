// Package launcher opens a directory in the host's file manager.
package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/starford/lines/internal/apperr"
)

// Kind identifies a supported file-manager launcher.
type Kind int

const (
	Explorer Kind = iota // Windows Explorer
	Finder               // macOS `open`
	XDGOpen              // freedesktop default handler
	Nautilus             // GNOME
	Dolphin              // KDE
	Thunar               // XFCE
)

// String returns the launcher's display name.
func (k Kind) String() string {
	switch k {
	case Explorer:
		return "explorer"
	case Finder:
		return "finder"
	case XDGOpen:
		return "xdg-open"
	case Nautilus:
		return "nautilus"
	case Dolphin:
		return "dolphin"
	case Thunar:
		return "thunar"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Command returns the executable started for k.
func (k Kind) Command() string {
	switch k {
	case Explorer:
		return "explorer"
	case Finder:
		return "open"
	case Nautilus:
		return "nautilus"
	case Dolphin:
		return "dolphin"
	case Thunar:
		return "thunar"
	default:
		return "xdg-open"
	}
}

// Detect picks a launcher for goos, consulting XDG_CURRENT_DESKTOP through
// getenv on freedesktop platforms.
func Detect(goos string, getenv func(string) string) (Kind, error) {
	switch goos {
	case "windows":
		return Explorer, nil
	case "darwin":
		return Finder, nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return fromDesktop(getenv("XDG_CURRENT_DESKTOP")), nil
	default:
		return 0, fmt.Errorf("%w: %s", apperr.ErrUnsupportedPlatform, goos)
	}
}

// fromDesktop maps a desktop hint such as "ubuntu:GNOME" to a launcher.
func fromDesktop(hint string) Kind {
	for _, part := range strings.Split(strings.ToUpper(hint), ":") {
		switch strings.TrimSpace(part) {
		case "GNOME", "UNITY":
			return Nautilus
		case "KDE":
			return Dolphin
		case "XFCE":
			return Thunar
		}
	}
	return XDGOpen
}

// Open starts the launcher on dir without waiting for it to exit.
func Open(ctx context.Context, k Kind, dir string) error {
	cmd := exec.CommandContext(ctx, k.Command(), dir)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launcher: start %s: %w", k.Command(), err)
	}
	// File managers often fork and exit; reap the child in the background.
	go func() { _ = cmd.Wait() }()
	return nil
}
