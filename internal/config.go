package internal

import (
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var extensionRe = regexp.MustCompile(`^\.[A-Za-z0-9_-]+$`)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Notes   NotesConfig       `yaml:"notes"`
	Session SessionConfig     `yaml:"session"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Notes.Validate(); err != nil {
		return err
	}
	return c.Session.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In(slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError)),
	)
}

// NotesConfig controls where notes live and how they are named.
//
// Dir overrides the default <home>/Documents/<app_name> location. HeaderFile
// is looked up next to the executable, then in the working directory, unless
// it is an absolute path.
type NotesConfig struct {
	Dir        string `yaml:"dir"`
	AppName    string `yaml:"app_name"`
	Extension  string `yaml:"extension"`
	TailLines  int    `yaml:"tail_lines"`
	HeaderFile string `yaml:"header_file"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AppName, validation.Required),
		validation.Field(&c.Extension, validation.Required, validation.Match(extensionRe)),
		validation.Field(&c.TailLines, validation.Required, validation.Min(1), validation.Max(10000)),
	)
}

// SessionConfig holds interactive session settings.
type SessionConfig struct {
	ClearScreen bool `yaml:"clear_screen"`
}

// Validate validates the session configuration.
func (c *SessionConfig) Validate() error {
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
		},
		Notes: NotesConfig{
			AppName:    "lines",
			Extension:  ".txt",
			TailLines:  10,
			HeaderFile: "header.txt",
		},
		Session: SessionConfig{
			ClearScreen: true,
		},
	}
}
