// Package intake turns clipboard changes into stored clips.
package intake

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/blob"
	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/clipboard"
	"github.com/stormlightlabs/clipstash/internal/config"
	"github.com/stormlightlabs/clipstash/internal/errs"
	"github.com/stormlightlabs/clipstash/internal/event"
	"github.com/stormlightlabs/clipstash/internal/searchtext"
)

// Store is the part of the clip store intake writes through.
type Store interface {
	NewClip(ctx context.Context, c clip.Clip, autoDelete bool) (int64, error)
	GetClip(ctx context.Context, id int64) (clip.Clip, bool, error)
	LatestClipID(ctx context.Context) (int64, bool, error)
}

type Pipeline struct {
	store   Store
	blobs   *blob.Store
	board   clipboard.Port
	cfg     *config.Guard
	events  *event.Bus
	current *Selection
	now     func() time.Time
}

func New(store Store, blobs *blob.Store, board clipboard.Port, cfg *config.Guard, events *event.Bus, current *Selection) *Pipeline {
	return &Pipeline{
		store:   store,
		blobs:   blobs,
		board:   board,
		cfg:     cfg,
		events:  events,
		current: current,
		now:     time.Now,
	}
}

// Run handles every change serially until changes closes or ctx ends.
// Failures drop the event and the loop continues.
func (p *Pipeline) Run(ctx context.Context, changes <-chan struct{}) error {
	log.Info("clipboard monitor started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if p.cfg.Snapshot().PauseMonitoring {
				log.Debug("monitoring paused, change ignored")
				continue
			}
			if err := p.events.Send(ctx, event.Event{Kind: event.ClipboardChanged}); err != nil {
				return err
			}
			if _, _, err := p.Handle(ctx); err != nil {
				log.Error("clipboard intake failed", "err", err)
			}
		}
	}
}

// Handle reads the clipboard once and stores what it holds. stored is
// false when the board was empty or matched a known clip.
func (p *Pipeline) Handle(ctx context.Context) (id int64, stored bool, err error) {
	c, ok, err := p.read(ctx)
	if err != nil || !ok {
		return 0, false, err
	}

	if dup, err := p.duplicate(ctx, c); err != nil || dup {
		if dup {
			log.Debug("clipboard content already stored", "type", c.Type)
		}
		return 0, false, err
	}

	id, err = p.store.NewClip(ctx, c, p.cfg.Snapshot().AutoDeleteDuplicateClip)
	if err != nil {
		return 0, false, err
	}
	p.current.Set(id)
	log.Debug("stored clip", "id", id, "type", c.Type)

	if err := p.events.Send(ctx, event.Event{Kind: event.RebuildTrayMenu, ID: id}); err != nil {
		return id, true, err
	}
	return id, true, nil
}

// read queries the board from the richest format down and builds the
// clip to store.
func (p *Pipeline) read(ctx context.Context) (clip.Clip, bool, error) {
	c := clip.Clip{Timestamp: p.now().Unix()}

	if img, ok, err := p.board.ReadImage(ctx); err != nil {
		return c, false, errs.E(errs.ClipboardRead, "read image", err)
	} else if ok {
		// Recognise first so a failed OCR run leaves no blob behind.
		text, err := searchtext.Extract(ctx, clip.Image, img)
		if err != nil {
			return c, false, err
		}
		path, existed, err := p.blobs.Put(img)
		if err != nil {
			return c, false, err
		}
		if existed {
			log.Debug("image blob reused", "path", path)
		}
		c.Type, c.Data, c.SearchText = clip.Image, []byte(path), text
		return c, true, nil
	}

	if uris, ok, err := p.board.ReadFiles(ctx); err != nil {
		return c, false, errs.E(errs.ClipboardRead, "read files", err)
	} else if ok {
		data, err := clip.EncodeFiles(uris)
		if err != nil {
			return c, false, err
		}
		return p.textual(ctx, c, clip.File, data, []byte(strings.Join(uris, "\n")))
	}

	if html, ok, err := p.board.ReadHTML(ctx); err != nil {
		return c, false, errs.E(errs.ClipboardRead, "read html", err)
	} else if ok {
		return p.textual(ctx, c, clip.HTML, []byte(html), []byte(html))
	}

	if rtf, ok, err := p.board.ReadRTF(ctx); err != nil {
		return c, false, errs.E(errs.ClipboardRead, "read rtf", err)
	} else if ok {
		return p.textual(ctx, c, clip.RTF, []byte(rtf), []byte(rtf))
	}

	text, ok, err := p.board.ReadText(ctx)
	if err != nil {
		return c, false, errs.E(errs.ClipboardRead, "read text", err)
	}
	if !ok || text == "" {
		return c, false, nil
	}
	return p.textual(ctx, c, clip.Text, []byte(text), []byte(text))
}

func (p *Pipeline) textual(ctx context.Context, c clip.Clip, t clip.Type, data, source []byte) (clip.Clip, bool, error) {
	text, err := searchtext.Extract(ctx, t, source)
	if err != nil {
		return c, false, err
	}
	c.Type, c.Data, c.SearchText = t, data, text
	return c, true, nil
}

// duplicate reports whether c matches the selected clip or the newest one.
func (p *Pipeline) duplicate(ctx context.Context, c clip.Clip) (bool, error) {
	var ids []int64
	if id, ok := p.current.Get(); ok {
		ids = append(ids, id)
	}
	latest, ok, err := p.store.LatestClipID(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		ids = append(ids, latest)
	}

	for _, id := range ids {
		existing, found, err := p.store.GetClip(ctx, id)
		if err != nil {
			return false, err
		}
		if found && existing.Same(c) {
			return true, nil
		}
	}
	return false, nil
}
