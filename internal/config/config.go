// Package config handles noted configuration.
//
// Settings come from a TOML file, then from a .env file in the working
// directory, then from NOTED_* environment variables. Later sources win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv and ResolvePath.
const (
	EnvConfig       = "NOTED_CONFIG"
	EnvNotesPath    = "NOTED_NOTES_PATH"
	EnvDatabasePath = "NOTED_DATABASE_PATH"
	EnvDebug        = "NOTED_DEBUG"
)

// Config represents the noted configuration.
type Config struct {
	// NotesPath is the directory holding note files.
	NotesPath string `toml:"notes_path"`

	// DatabasePath is the SQLite index. Defaults to .noted/index.db inside
	// NotesPath.
	DatabasePath string `toml:"database_path"`

	// Extension is the note file extension, including the dot.
	Extension string `toml:"extension"`

	// ExcludedStems are filename prefixes never treated as notes.
	ExcludedStems []string `toml:"excluded_stems"`

	// QuietPeriod is how long a file must be unchanged before the watcher
	// stores it.
	QuietPeriod Duration `toml:"quiet_period"`

	// SweepInterval is how often the watcher checks pending files.
	SweepInterval Duration `toml:"sweep_interval"`

	// Autostore stores notes created with `noted new` immediately.
	Autostore bool `toml:"autostore"`

	// GitCommit commits note changes when the watcher shuts down.
	GitCommit bool `toml:"git_commit"`

	// PurgeDetritus removes editor backup and lock files when the watcher
	// shuts down.
	PurgeDetritus bool `toml:"purge_detritus"`

	// AuditLog appends every stored revision to audit.log next to the
	// database.
	AuditLog bool `toml:"audit_log"`

	// Editor is the editor to use for opening files (defaults to $EDITOR).
	Editor string `toml:"editor"`

	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// Duration is a time.Duration written as a string such as "5m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Extension:     ".md",
		ExcludedStems: []string{"crap"},
		QuietPeriod:   Duration{5 * time.Minute},
		SweepInterval: Duration{time.Second},
		LogLevel:      "info",
	}
}

// Load loads the configuration from path, or from the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path. Unset fields keep
// their defaults.
func LoadFrom(path string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// LoadDotEnv loads variables from the .env file in dir into the process
// environment. Variables already set are not overridden. A missing file is
// not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from NOTED_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvNotesPath); v != "" {
		c.NotesPath = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv(EnvDebug); v != "" && v != "0" && !strings.EqualFold(v, "false") {
		c.LogLevel = "debug"
	}
}

// ResolvePath picks the config file: the explicit flag value, then
// $NOTED_CONFIG, then DefaultPath.
func ResolvePath(flag string) string {
	if flag != "" {
		return ExpandHome(flag)
	}
	if v := os.Getenv(EnvConfig); v != "" {
		return ExpandHome(v)
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/noted/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "noted", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "noted", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ResolvedNotesPath returns NotesPath with "~" expanded.
func (c *Config) ResolvedNotesPath() string {
	return ExpandHome(c.NotesPath)
}

// ResolvedDatabasePath returns DatabasePath with "~" expanded, or the
// default location inside the notes directory.
func (c *Config) ResolvedDatabasePath() string {
	if c.DatabasePath != "" {
		return ExpandHome(c.DatabasePath)
	}
	if c.NotesPath == "" {
		return ""
	}
	return filepath.Join(c.ResolvedNotesPath(), ".noted", "index.db")
}

// CreateDefault writes a commented config template to path if no file
// exists there, and returns the path.
func CreateDefault(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# noted configuration

# Directory holding your notes (required)
# notes_path = "~/notes"

# SQLite index (defaults to <notes_path>/.noted/index.db)
# database_path = "~/.local/share/noted/index.db"

# Note file extension and filename prefixes that are never notes
# extension = ".md"
# excluded_stems = ["crap"]

# Watcher timing
# quiet_period = "5m"
# sweep_interval = "1s"

# Store notes created with 'noted new' immediately
# autostore = false

# Journal every stored revision to audit.log next to the database
# audit_log = false

# When the watcher stops: remove editor backups and commit to git
# purge_detritus = false
# git_commit = false

# Editor for 'noted new --edit' (defaults to $VISUAL, then $EDITOR)
# editor = "vim"

# Logging; log_file enables a size-rotated log
# log_level = "info"
# log_file = "~/.local/state/noted/noted.log"

# [ui]
# accent = "39"
# code_theme = "monokai"
`

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
