package app

import (
	"context"

	"github.com/stormlightlabs/clipstash/internal/event"
	"github.com/stormlightlabs/clipstash/internal/tray"
)

func (a *App) trayState() tray.State {
	snap := a.cfg.Snapshot()
	cur, ok := a.current.Get()
	a.mu.Lock()
	defer a.mu.Unlock()
	return tray.State{
		Page:       a.page,
		PageSize:   snap.ClipPerPage,
		MaxWidth:   snap.ClipMaxShowLength,
		Current:    cur,
		HasCurrent: ok,
	}
}

// Tray renders the current tray page, repairing the stored page index
// when deletions have left it out of range.
func (a *App) Tray(ctx context.Context) (tray.View, error) {
	v, err := tray.Build(ctx, a.store, a.trayState())
	if err != nil {
		return tray.View{}, err
	}
	a.mu.Lock()
	a.page = v.Page
	a.mu.Unlock()
	return v, nil
}

// TurnPage moves delta pages, clamped to the valid range, and returns the
// new view.
func (a *App) TurnPage(ctx context.Context, delta int) (tray.View, error) {
	total, err := a.store.CountClips(ctx)
	if err != nil {
		return tray.View{}, err
	}
	maxPage := tray.MaxPage(total, a.cfg.Snapshot().ClipPerPage)

	a.mu.Lock()
	a.page = tray.Step(a.page, delta, maxPage)
	a.mu.Unlock()

	a.notify(ctx, event.RebuildTrayMenu, 0)
	return a.Tray(ctx)
}

func (a *App) NextPage(ctx context.Context) (tray.View, error) { return a.TurnPage(ctx, 1) }
func (a *App) PrevPage(ctx context.Context) (tray.View, error) { return a.TurnPage(ctx, -1) }

// FirstPage returns to the newest clips.
func (a *App) FirstPage(ctx context.Context) (tray.View, error) {
	a.mu.Lock()
	a.page = 0
	a.mu.Unlock()
	return a.Tray(ctx)
}
