// Package tray projects the clip store into the paged menu shown by the
// tray and the terminal browser.
package tray

import (
	"context"
	"fmt"

	"github.com/stormlightlabs/clipstash/internal/clip"
)

// Source is the read side of the clip store the view needs.
type Source interface {
	CountClips(ctx context.Context) (int, error)
	IDAtPos(ctx context.Context, pos int) (int64, bool, error)
	PosOfID(ctx context.Context, id int64) (int, bool, error)
	GetClip(ctx context.Context, id int64) (clip.Clip, bool, error)
	LabelClipCount(ctx context.Context, label string) (int, error)
	LabelClipIDAtPos(ctx context.Context, label string, pos int) (int64, bool, error)
}

// State is what the caller keeps between renders.
type State struct {
	Page     int
	PageSize int
	MaxWidth int
	// Current is the selected clip, when HasCurrent is set.
	Current    int64
	HasCurrent bool
}

type Item struct {
	ID    int64
	Type  clip.Type
	Label string
}

type View struct {
	Page      int
	MaxPage   int
	Total     int
	Banner    string
	Recent    []Item
	Pinned    []Item
	Favourite []Item
	// Current is the clip last placed on the clipboard, zero when unknown.
	Current int64
}

// MaxPage is the last zero-based page index for total clips.
func MaxPage(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	p := total / size
	if p*size == total {
		p--
	}
	return p
}

// RepairPage returns a valid page for st. An out of range page moves to
// the page holding the current clip, or to the first page, which holds the
// newest clip, when there is none.
func RepairPage(ctx context.Context, src Source, st State, total int) (int, error) {
	if st.Page <= MaxPage(total, st.PageSize) {
		return max(st.Page, 0), nil
	}

	pos := 0
	found := false
	if st.HasCurrent {
		p, ok, err := src.PosOfID(ctx, st.Current)
		if err != nil {
			return 0, err
		}
		pos, found = p, ok
	}
	if !found && total > 0 {
		pos = total - 1
	}
	if total == pos {
		return 0, nil
	}
	return (total - pos - 1) / st.PageSize, nil
}

// Build renders the view for st. Recent clips are newest first, the label
// sections list clips by ascending id.
func Build(ctx context.Context, src Source, st State) (View, error) {
	if st.PageSize <= 0 {
		return View{}, fmt.Errorf("page size must be positive, got %d", st.PageSize)
	}

	total, err := src.CountClips(ctx)
	if err != nil {
		return View{}, err
	}
	page, err := RepairPage(ctx, src, st, total)
	if err != nil {
		return View{}, err
	}

	v := View{Page: page, MaxPage: MaxPage(total, st.PageSize), Total: total}
	if st.HasCurrent {
		v.Current = st.Current
	}
	v.Banner = fmt.Sprintf("Total: %d, Page: %d/%d", total, v.Page+1, v.MaxPage+1)

	for i := range st.PageSize {
		pos := total - (page*st.PageSize + i + 1)
		if pos < 0 {
			break
		}
		id, ok, err := src.IDAtPos(ctx, pos)
		if err != nil {
			return View{}, err
		}
		if !ok {
			break
		}
		item, ok, err := itemFor(ctx, src, id, st.MaxWidth)
		if err != nil {
			return View{}, err
		}
		if ok {
			v.Recent = append(v.Recent, item)
		}
	}

	if v.Pinned, err = labelItems(ctx, src, clip.LabelPinned, st.MaxWidth); err != nil {
		return View{}, err
	}
	if v.Favourite, err = labelItems(ctx, src, clip.LabelFavourite, st.MaxWidth); err != nil {
		return View{}, err
	}
	return v, nil
}

func labelItems(ctx context.Context, src Source, label string, width int) ([]Item, error) {
	n, err := src.LabelClipCount(ctx, label)
	if err != nil {
		return nil, err
	}
	var items []Item
	for pos := range n {
		id, ok, err := src.LabelClipIDAtPos(ctx, label, pos)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		item, ok, err := itemFor(ctx, src, id, width)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func itemFor(ctx context.Context, src Source, id int64, width int) (Item, bool, error) {
	c, ok, err := src.GetClip(ctx, id)
	if err != nil || !ok {
		return Item{}, false, err
	}
	return Item{ID: c.ID, Type: c.Type, Label: Trim(c.SearchText, width)}, true, nil
}

// Step moves page by delta, clamped to [0, maxPage].
func Step(page, delta, maxPage int) int {
	return min(max(page+delta, 0), maxPage)
}
