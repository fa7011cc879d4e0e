package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/errs"
)

// Config represents the user configuration stored in config.json.
type Config struct {
	ClipPerPage                 int      `json:"clip_per_page"`                    // Tray page size
	ClipMaxShowLength           int      `json:"clip_max_show_length"`             // Display width cap per tray row
	SearchPageClipMaxShowLength int      `json:"search_page_clip_max_show_length"` // Display width cap on the search page
	SearchClipPerBatch          int      `json:"search_clip_per_batch"`            // Default LIMIT for paginated search
	LogLevel                    LogLevel `json:"log_level"`
	DarkMode                    bool     `json:"dark_mode"`
	Language                    string   `json:"language"`                         // BCP-47 tag
	AutoDeleteDuplicateClip     bool     `json:"auto_delete_duplicate_clip"`
	PauseMonitoring             bool     `json:"pause_monitoring"`
}

// LogLevel is the logger filter. Values are lowercase on disk but any case
// is accepted when reading.
type LogLevel string

const (
	LevelTrace LogLevel = "trace"
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
	LevelOff   LogLevel = "off"
)

// ParseLogLevel normalises a level name.
func ParseLogLevel(s string) (LogLevel, error) {
	switch l := LogLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelOff:
		return l, nil
	case "warning":
		return LevelWarn, nil
	}
	return "", fmt.Errorf("invalid log level: %s (use trace, debug, info, warn, error or off)", s)
}

func (l *LogLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseLogLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Charm maps the level onto the logger's levels. Trace has no direct
// equivalent and maps to debug; off sits above fatal.
func (l LogLevel) Charm() log.Level {
	switch l {
	case LevelTrace, LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	case LevelOff:
		return log.FatalLevel + 1
	default:
		return log.InfoLevel
	}
}

// Load reads the configuration at path. A missing or unparsable file is
// replaced by the defaults, which are written back.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.Save(path)
		}
		return nil, errs.E(errs.Path, "read config", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		log.Warn("config file is invalid, falling back to defaults", "path", path, "err", err)
		cfg = DefaultConfig()
		return cfg, cfg.Save(path)
	}

	cfg.normalize()
	return cfg, nil
}

// Parse decodes a configuration without touching the filesystem. Missing
// keys keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errs.E(errs.ConfigParse, "parse config", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the configuration to path.
func (cfg *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.E(errs.Path, "create config dir", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.E(errs.Path, "write config", err)
	}
	return nil
}

// JSON returns the compact encoding used by exports.
func (cfg *Config) JSON() ([]byte, error) {
	return json.Marshal(cfg)
}

func (cfg *Config) normalize() {
	def := DefaultConfig()
	if cfg.ClipPerPage <= 0 {
		cfg.ClipPerPage = def.ClipPerPage
	}
	if cfg.SearchClipPerBatch <= 0 {
		cfg.SearchClipPerBatch = def.SearchClipPerBatch
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
}

// RenameLegacyKeys rewrites configs written before search_clip_per_page was
// renamed to search_clip_per_batch. A missing file is left alone; an
// unreadable one is replaced by the defaults.
func RenameLegacyKeys(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errs.E(errs.Path, "read config", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn("legacy config is invalid, writing defaults", "path", path, "err", err)
		return DefaultConfig().Save(path)
	}

	if old, ok := raw["search_clip_per_page"]; ok {
		if _, exists := raw["search_clip_per_batch"]; !exists {
			raw["search_clip_per_batch"] = old
		}
		delete(raw, "search_clip_per_page")
	}

	merged, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	cfg, err := Parse(merged)
	if err != nil {
		log.Warn("legacy config is invalid, writing defaults", "path", path, "err", err)
		return DefaultConfig().Save(path)
	}
	return cfg.Save(path)
}
