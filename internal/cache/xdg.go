package cache

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/stormlightlabs/clipstash/internal/errs"
)

const appName = "clipstash"

// DataDir returns the application data directory for clipstash.
// Uses $XDG_DATA_HOME/clipstash or ~/.local/share/clipstash on Unix.
// On macOS, uses ~/Library/Application Support/clipstash.
// CLIPSTASH_HOME overrides all of these.
func DataDir() (string, error) {
	if homeOverride := os.Getenv("CLIPSTASH_HOME"); homeOverride != "" {
		return homeOverride, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", appName), nil
	}

	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}

	return filepath.Join(home, ".local", "share", appName), nil
}

// EnsureDataDir resolves dir (DataDir when empty) and creates it.
func EnsureDataDir(dir string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = DataDir(); err != nil {
			return "", errs.E(errs.AppDataDirUnavailable, "resolve data dir", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.E(errs.AppDataDirUnavailable, "create data dir", err)
	}
	return dir, nil
}

// DatabasePath is the SQLite file inside a data directory.
func DatabasePath(dir string) string {
	return filepath.Join(dir, "database")
}

// ConfigPath is the config file inside a data directory. CLIPSTASH_CONFIG
// overrides it.
func ConfigPath(dir string) string {
	if path := os.Getenv("CLIPSTASH_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(dir, "config.json")
}

// LogPath is the append-only log inside a data directory.
func LogPath(dir string) string {
	return filepath.Join(dir, "log")
}
