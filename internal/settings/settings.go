// Package settings resolves command line defaults.
//
// Values are layered, later sources winning:
//  1. Built-in defaults
//  2. A YAML settings file
//  3. A .env file in the working directory
//  4. TIMELINE_* environment variables
//
// Command line flags are applied on top by the caller.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/raidtimeline/timeline-go/internal/safefile"
)

// Environment variable names.
const (
	EnvLanguage    = "TIMELINE_LANG"
	EnvBundle      = "TIMELINE_BUNDLE"
	EnvTimelineDir = "TIMELINE_DIR"
	EnvLogDir      = "TIMELINE_LOGDIR"
	EnvLogLevel    = "TIMELINE_LOG_LEVEL"
	EnvLogFormat   = "TIMELINE_LOG_FORMAT"
	EnvLogFile     = "TIMELINE_LOG_FILE"
	EnvLogSource   = "TIMELINE_LOG_SOURCE"
)

// DotEnvFile is the optional environment file read from the working
// directory.
const DotEnvFile = ".env"

// maxFileSize bounds the settings file.
const maxFileSize = 64 * 1024

// Settings are the resolved defaults.
type Settings struct {
	Language    string `yaml:"language"`
	Bundle      string `yaml:"bundle"`
	TimelineDir string `yaml:"timeline_dir"`
	LogDir      string `yaml:"log_dir"`
	Log         Log    `yaml:"log"`
}

// Log holds diagnostic logging settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
	Source bool   `yaml:"source"`
}

// Default returns the built-in defaults.
func Default() Settings {
	return Settings{
		Language: "en",
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load resolves settings. path names an optional YAML file; an empty path
// skips it, while a named file that does not exist is an error. A missing
// .env file is ignored.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		if err := s.mergeFile(path); err != nil {
			return Settings{}, err
		}
	}

	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to load %s: %w", DotEnvFile, safefile.SanitizePathError(err))
	}

	if err := s.mergeEnv(os.LookupEnv); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) mergeFile(path string) error {
	data, err := safefile.ReadRegular(path, maxFileSize)
	if errors.Is(err, safefile.ErrEmpty) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}
	return nil
}

func (s *Settings) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvLanguage, &s.Language)
	str(EnvBundle, &s.Bundle)
	str(EnvTimelineDir, &s.TimelineDir)
	str(EnvLogDir, &s.LogDir)
	str(EnvLogLevel, &s.Log.Level)
	str(EnvLogFormat, &s.Log.Format)
	str(EnvLogFile, &s.Log.File)

	if v, ok := lookup(EnvLogSource); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvLogSource, err)
		}
		s.Log.Source = b
	}
	return nil
}
