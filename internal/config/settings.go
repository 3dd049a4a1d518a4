package config

import (
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gitlab.com/tozd/go/errors"

	"github.com/zenone/crate/internal/fsutil"
	"github.com/zenone/crate/internal/renamer"
	"github.com/zenone/crate/internal/scan"
)

const (
	defaultDirName  = "crate"
	defaultFileName = "config.toml"
)

// Settings holds all configuration options.
type Settings struct {
	// Rename settings
	DefaultTemplate string `toml:"default_template"`
	Workers         int    `toml:"workers"`
	Recursive       bool   `toml:"recursive"`
	MaxStemLength   int    `toml:"max_stem_length"`

	// Scan settings
	Extensions      []string `toml:"extensions"`
	IncludePatterns []string `toml:"include_patterns"`

	// Undo settings
	UndoTTLMinutes int `toml:"undo_ttl_minutes"`

	// Logging
	LogLevel string `toml:"log_level"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		DefaultTemplate: "{artist} - {title}",
		Workers:         4,
		Recursive:       false,
		MaxStemLength:   140,
		Extensions:      []string{".mp3", ".flac", ".wav", ".aiff", ".m4a", ".ogg"},
		UndoTTLMinutes:  15,
		LogLevel:        "info",
	}
}

// DefaultPath returns the standard settings location,
// ~/.config/crate/config.toml on most systems.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultFileName
	}
	return filepath.Join(dir, defaultDirName, defaultFileName)
}

// UndoTTL returns the undo window as a duration.
func (s *Settings) UndoTTL() time.Duration {
	return time.Duration(s.UndoTTLMinutes) * time.Minute
}

// ToScanner converts settings to a file scanner.
func (s *Settings) ToScanner() *scan.Scanner {
	return &scan.Scanner{
		Extensions: s.Extensions,
		Include:    s.IncludePatterns,
	}
}

// ToExecutorOptions converts settings to executor options. The caller
// attaches its logger.
func (s *Settings) ToExecutorOptions() renamer.Options {
	return renamer.Options{
		Scanner:       s.ToScanner(),
		Workers:       s.Workers,
		MaxStemLength: s.MaxStemLength,
	}
}

// Load reads settings from a TOML file. A missing file yields the
// defaults, never an error; fields the file does not set keep their
// default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, errors.Errorf("reading settings: %w", err)
	}

	settings := DefaultSettings()
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, errors.Errorf("parsing settings: %w", err)
	}
	return settings, nil
}

// Save writes settings to a TOML file, creating parent directories as
// needed.
func (s *Settings) Save(path string) error {
	if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
		return errors.Errorf("creating settings directory: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return errors.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("writing settings: %w", err)
	}
	return nil
}
