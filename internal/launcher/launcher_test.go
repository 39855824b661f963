package launcher

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/lines/internal/apperr"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		goos    string
		desktop string
		want    Kind
	}{
		{"windows", "", Explorer},
		{"darwin", "GNOME", Finder},
		{"linux", "GNOME", Nautilus},
		{"linux", "ubuntu:GNOME", Nautilus},
		{"linux", "Unity", Nautilus},
		{"linux", "KDE", Dolphin},
		{"linux", "XFCE", Thunar},
		{"linux", "sway", XDGOpen},
		{"linux", "", XDGOpen},
		{"freebsd", "KDE", Dolphin},
	}
	for _, tc := range cases {
		getenv := func(k string) string {
			if k == "XDG_CURRENT_DESKTOP" {
				return tc.desktop
			}
			return ""
		}
		got, err := Detect(tc.goos, getenv)
		if err != nil {
			t.Fatalf("Detect(%q, %q): %v", tc.goos, tc.desktop, err)
		}
		if got != tc.want {
			t.Errorf("Detect(%q, %q) = %v, want %v", tc.goos, tc.desktop, got, tc.want)
		}
	}
}

func TestDetect_Unsupported(t *testing.T) {
	_, err := Detect("plan9", func(string) string { return "" })
	if !errors.Is(err, apperr.ErrUnsupportedPlatform) {
		t.Errorf("err = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestCommand(t *testing.T) {
	want := map[Kind]string{
		Explorer: "explorer",
		Finder:   "open",
		XDGOpen:  "xdg-open",
		Nautilus: "nautilus",
		Dolphin:  "dolphin",
		Thunar:   "thunar",
	}
	for k, cmd := range want {
		if got := k.Command(); got != cmd {
			t.Errorf("%v.Command() = %q, want %q", k, got, cmd)
		}
	}
}

func TestOpen_MissingExecutable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if err := Open(context.Background(), Thunar, t.TempDir()); err == nil {
		t.Error("expected error when launcher is not installed")
	}
}
