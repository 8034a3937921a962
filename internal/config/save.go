package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/noted/internal/atomicfile"
)

type persistedConfig struct {
	NotesPath     *string              `toml:"notes_path,omitempty"`
	DatabasePath  *string              `toml:"database_path,omitempty"`
	Extension     *string              `toml:"extension,omitempty"`
	ExcludedStems []string             `toml:"excluded_stems"`
	QuietPeriod   Duration             `toml:"quiet_period"`
	SweepInterval Duration             `toml:"sweep_interval"`
	Autostore     bool                 `toml:"autostore"`
	GitCommit     bool                 `toml:"git_commit"`
	PurgeDetritus bool                 `toml:"purge_detritus"`
	AuditLog      bool                 `toml:"audit_log"`
	Editor        *string              `toml:"editor,omitempty"`
	LogFile       *string              `toml:"log_file,omitempty"`
	LogLevel      *string              `toml:"log_level,omitempty"`
	UI            *persistedUISettings `toml:"ui,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = Default()
	}

	out := persistedConfig{
		NotesPath:     nonEmptyPtr(cfg.NotesPath),
		DatabasePath:  nonEmptyPtr(cfg.DatabasePath),
		Extension:     nonEmptyPtr(cfg.Extension),
		ExcludedStems: cfg.ExcludedStems,
		QuietPeriod:   cfg.QuietPeriod,
		SweepInterval: cfg.SweepInterval,
		Autostore:     cfg.Autostore,
		GitCommit:     cfg.GitCommit,
		PurgeDetritus: cfg.PurgeDetritus,
		AuditLog:      cfg.AuditLog,
		Editor:        nonEmptyPtr(cfg.Editor),
		LogFile:       nonEmptyPtr(cfg.LogFile),
		LogLevel:      nonEmptyPtr(cfg.LogLevel),
	}
	if out.ExcludedStems == nil {
		out.ExcludedStems = []string{}
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

// setters maps the keys accepted by Set to their parsers.
var setters = map[string]func(c *Config, v string) error{
	"notes_path":    func(c *Config, v string) error { c.NotesPath = v; return nil },
	"database_path": func(c *Config, v string) error { c.DatabasePath = v; return nil },
	"extension": func(c *Config, v string) error {
		if v != "" && !strings.HasPrefix(v, ".") {
			v = "." + v
		}
		c.Extension = v
		return nil
	},
	"excluded_stems": func(c *Config, v string) error {
		c.ExcludedStems = splitList(v)
		return nil
	},
	"quiet_period":   durationSetter(func(c *Config) *Duration { return &c.QuietPeriod }),
	"sweep_interval": durationSetter(func(c *Config) *Duration { return &c.SweepInterval }),
	"autostore":      boolSetter(func(c *Config) *bool { return &c.Autostore }),
	"git_commit":     boolSetter(func(c *Config) *bool { return &c.GitCommit }),
	"purge_detritus": boolSetter(func(c *Config) *bool { return &c.PurgeDetritus }),
	"audit_log":      boolSetter(func(c *Config) *bool { return &c.AuditLog }),
	"editor":         func(c *Config, v string) error { c.Editor = v; return nil },
	"log_file":       func(c *Config, v string) error { c.LogFile = v; return nil },
	"log_level": func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("invalid log level %q (use debug, info, warn or error)", v)
	},
	"ui.accent":     func(c *Config, v string) error { c.UI.Accent = v; return nil },
	"ui.code_theme": func(c *Config, v string) error { c.UI.CodeTheme = v; return nil },
}

func durationSetter(field func(*Config) *Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		if d <= 0 {
			return fmt.Errorf("duration must be positive: %q", v)
		}
		field(c).Duration = d
		return nil
	}
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		*field(c) = b
		return nil
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Keys returns the keys accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns a single setting from its string form.
func (c *Config) Set(key, value string) error {
	set, ok := setters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	return set(c, strings.TrimSpace(value))
}
