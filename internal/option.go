package internal

import (
	"io"
	"time"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	getenv     func(string) string
	now        func() time.Time
	goos       string
	headerDirs []string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithEnv replaces the environment lookup used to find the home directory
// and desktop hints.
func WithEnv(getenv func(string) string) Option {
	return func(a *application) {
		a.getenv = getenv
	}
}

// WithClock sets the clock used for date stamps.
func WithClock(now func() time.Time) Option {
	return func(a *application) {
		a.now = now
	}
}

// WithPlatform overrides the operating system used to pick a file manager.
func WithPlatform(goos string) Option {
	return func(a *application) {
		a.goos = goos
	}
}

// WithHeaderDirs sets the directories searched, in order, for the header file.
// By default these are the executable's directory and the working directory.
func WithHeaderDirs(dirs ...string) Option {
	return func(a *application) {
		a.headerDirs = dirs
	}
}

// WithIO sets the streams used for prompting, note display and logging.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *application) {
		a.stdin = in
		a.stdout = out
		a.stderr = errOut
	}
}
