package app

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/event"
	"github.com/stormlightlabs/clipstash/internal/export"
)

// ExportData writes the archive into dir and returns its path.
func (a *App) ExportData(ctx context.Context, dir string) (string, error) {
	if dir == "" {
		dir = a.dataDir
	}
	return export.ExportFile(ctx, dir, a.store, a.cfg.Snapshot())
}

// ImportData loads an archive, adding its clips to the store. When
// restoreConfig is set the archived configuration replaces the current one.
func (a *App) ImportData(ctx context.Context, path string, restoreConfig bool) (int, error) {
	archive, err := export.ImportFile(ctx, path, a.store)
	if err != nil {
		return 0, err
	}
	if restoreConfig {
		if err := a.cfg.Replace(*archive.Config); err != nil {
			return len(archive.Clips), err
		}
		log.Info("configuration restored from archive", "path", path)
		a.notify(ctx, event.SaveConfig, 0)
	}
	a.notify(ctx, event.RebuildTrayMenu, 0)
	return len(archive.Clips), nil
}
