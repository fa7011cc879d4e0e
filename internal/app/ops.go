package app

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/blob"
	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/errs"
	"github.com/stormlightlabs/clipstash/internal/event"
	"github.com/stormlightlabs/clipstash/internal/logging"
)

// SearchClips runs a constraint search. Without a Limit constraint the
// configured batch size applies.
func (a *App) SearchClips(ctx context.Context, cs []clip.Constraint) ([]clip.Clip, error) {
	limited := false
	for _, c := range cs {
		if c.Kind == clip.Limit {
			limited = true
			break
		}
	}
	if !limited {
		cs = append(cs[:len(cs):len(cs)], clip.MaxResults(int64(a.cfg.Snapshot().SearchClipPerBatch)))
	}
	return a.store.Search(ctx, cs)
}

func (a *App) MaxID(ctx context.Context) (int64, error) {
	return a.store.MaxID(ctx)
}

// Clip fetches a clip with its labels. A missing id is ClipNotFound.
func (a *App) Clip(ctx context.Context, id int64) (clip.Clip, error) {
	c, ok, err := a.store.GetClip(ctx, id)
	if err != nil {
		return clip.Clip{}, err
	}
	if !ok {
		return clip.Clip{}, errs.NotFound("get clip", id)
	}
	if c.Labels, err = a.store.ClipLabels(ctx, id); err != nil {
		return clip.Clip{}, err
	}
	return c, nil
}

// CopyClipToClipboard puts a stored clip back on the clipboard and makes it
// the current clip. Images are written as image data, everything else as
// text.
func (a *App) CopyClipToClipboard(ctx context.Context, id int64) error {
	if a.board == nil {
		return errs.E(errs.ClipboardWrite, "copy clip", errors.New("no clipboard attached"))
	}
	c, err := a.Clip(ctx, id)
	if err != nil {
		return err
	}

	switch c.Type {
	case clip.Image:
		img, err := blob.Read(c.Text())
		if err != nil {
			return err
		}
		if err := a.board.WriteImage(ctx, img); err != nil {
			return &errs.Error{Kind: errs.ClipboardWrite, Op: "write image", ID: id, Err: err}
		}
	case clip.File:
		uris, err := c.Files()
		if err != nil {
			return err
		}
		if err := a.board.WriteText(ctx, strings.Join(uris, "\n")); err != nil {
			return &errs.Error{Kind: errs.ClipboardWrite, Op: "write files", ID: id, Err: err}
		}
	default:
		if err := a.board.WriteText(ctx, c.Text()); err != nil {
			return &errs.Error{Kind: errs.ClipboardWrite, Op: "write text", ID: id, Err: err}
		}
	}

	a.current.Set(id)
	a.notify(ctx, event.RebuildTrayMenu, id)
	return nil
}

// DeleteClip removes a clip. Deleting a missing id is a no-op.
func (a *App) DeleteClip(ctx context.Context, id int64) error {
	pinned, err := a.store.ClipHasLabel(ctx, id, clip.LabelPinned)
	if err != nil {
		return err
	}
	if err := a.store.DeleteClip(ctx, id); err != nil {
		return err
	}
	if cur, ok := a.current.Get(); ok && cur == id {
		a.current.Clear()
	}
	log.Debug("deleted clip", "id", id)

	if pinned {
		a.notify(ctx, event.PinnedClipsChanged, id)
	}
	a.notify(ctx, event.RebuildTrayMenu, id)
	return nil
}

// ChangeFavourite sets or clears the favourite label.
func (a *App) ChangeFavourite(ctx context.Context, id int64, favourite bool) error {
	if err := a.store.ChangeClipLabel(ctx, id, clip.LabelFavourite, favourite); err != nil {
		return err
	}
	a.notify(ctx, event.RebuildTrayMenu, id)
	return nil
}

// SwitchPinned toggles the pinned label and returns the new state.
func (a *App) SwitchPinned(ctx context.Context, id int64) (bool, error) {
	pinned, err := a.store.ClipHasLabel(ctx, id, clip.LabelPinned)
	if err != nil {
		return false, err
	}
	if err := a.store.ChangeClipLabel(ctx, id, clip.LabelPinned, !pinned); err != nil {
		return pinned, err
	}
	a.notify(ctx, event.PinnedClipsChanged, id)
	a.notify(ctx, event.RebuildTrayMenu, id)
	return !pinned, nil
}

func (a *App) IsPinned(ctx context.Context, id int64) (bool, error) {
	return a.store.ClipHasLabel(ctx, id, clip.LabelPinned)
}

func (a *App) Labels(ctx context.Context) ([]string, error) {
	return a.store.Labels(ctx)
}

// CreateLabel registers a label with no clips yet.
func (a *App) CreateLabel(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.E(errs.DatabaseWrite, "create label", errors.New("empty label name"))
	}
	if err := a.store.CreateLabel(ctx, name); err != nil {
		return err
	}
	a.notify(ctx, event.RebuildTrayMenu, 0)
	return nil
}

// ChangeLabel adds or removes any label.
func (a *App) ChangeLabel(ctx context.Context, id int64, label string, add bool) error {
	if err := a.store.ChangeClipLabel(ctx, id, label, add); err != nil {
		return err
	}
	if label == clip.LabelPinned {
		a.notify(ctx, event.PinnedClipsChanged, id)
	}
	a.notify(ctx, event.RebuildTrayMenu, id)
	return nil
}

func (a *App) GetConfig(key string) (string, error) {
	return a.cfg.Get(key)
}

// SetConfig validates and stores one key. A log level change applies to
// the running logger at once.
func (a *App) SetConfig(ctx context.Context, key, value string) error {
	if err := a.cfg.Set(key, value); err != nil {
		return err
	}
	if key == "log_level" {
		logging.SetLevel(a.cfg.Snapshot().LogLevel)
	}
	a.notify(ctx, event.SaveConfig, 0)
	a.notify(ctx, event.RebuildTrayMenu, 0)
	return nil
}
