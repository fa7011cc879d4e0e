// Package logging points the process logger at stderr and the append-only
// log file in the data directory.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/config"
	"github.com/stormlightlabs/clipstash/internal/errs"
)

// Setup installs the default logger at level, writing to stderr and to
// path in append mode. The returned closer releases the file.
func Setup(path string, level config.LogLevel) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errs.E(errs.Path, "create log dir", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errs.E(errs.Path, "open log", err)
	}

	log.SetDefault(New(io.MultiWriter(os.Stderr, f), level))
	return f, nil
}

// New builds a logger on w at level.
func New(w io.Writer, level config.LogLevel) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level.Charm(),
		ReportTimestamp: true,
		Prefix:          "clipstash",
	})
}

// SetLevel changes the default logger's level.
func SetLevel(level config.LogLevel) {
	log.SetLevel(level.Charm())
}
