package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/shared"
	"github.com/stormlightlabs/clipstash/internal/tray"
)

// section is the tray group a row belongs to.
type section int

const (
	sectionPinned section = iota
	sectionFavourite
	sectionRecent
	sectionResult
)

func (s section) String() string {
	switch s {
	case sectionPinned:
		return "pinned"
	case sectionFavourite:
		return "favourite"
	case sectionRecent:
		return "recent"
	default:
		return "match"
	}
}

// ClipItem is one row of a clip list.
type ClipItem struct {
	ID      int64
	Type    clip.Type
	Label   string
	Section section
	Current bool
}

// FilterValue implements list.Item.
func (i ClipItem) FilterValue() string {
	return i.Label
}

// TrayItems flattens a tray view into list rows: pinned, then favourite,
// then the recent page.
func TrayItems(v tray.View, current int64) []ClipItem {
	var items []ClipItem
	add := func(s section, src []tray.Item) {
		for _, it := range src {
			items = append(items, ClipItem{ID: it.ID, Type: it.Type, Label: it.Label, Section: s, Current: it.ID == current})
		}
	}
	add(sectionPinned, v.Pinned)
	add(sectionFavourite, v.Favourite)
	add(sectionRecent, v.Recent)
	return items
}

// ResultItems turns search results into list rows trimmed to width.
func ResultItems(clips []clip.Clip, width int) []ClipItem {
	items := make([]ClipItem, len(clips))
	for i, c := range clips {
		items[i] = ClipItem{ID: c.ID, Type: c.Type, Label: tray.Trim(shared.OneLine(c.SearchText), width), Section: sectionResult}
	}
	return items
}

// clipDelegate defines how items are rendered in the list.
type clipDelegate struct{}

// Height implements list.ItemDelegate.
func (d clipDelegate) Height() int {
	return 1
}

// Spacing implements list.ItemDelegate.
func (d clipDelegate) Spacing() int {
	return 0
}

// Update implements list.ItemDelegate.
func (d clipDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render implements list.ItemDelegate.
func (d clipDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(ClipItem)
	if !ok {
		return
	}

	marker := "  "
	if i.Current {
		marker = currentMarkerStyle.Render("● ")
	}
	tag := sectionStyles[i.Section].Render(fmt.Sprintf("%-9s", i.Section))

	var label, kind string
	if index == m.Index() {
		label = selectedNameStyle.Render(i.Label)
		kind = selectedTypeStyle.Render(i.Type.String())
	} else {
		label = nameStyle.Render(i.Label)
		kind = typeStyle.Render(i.Type.String())
	}
	fmt.Fprintf(w, "%s%s %s %s", marker, tag, label, kind)
}

// ClipList wraps bubbles/list for clip navigation.
type ClipList struct {
	list  list.Model
	empty string
}

// NewClipList creates an empty list showing empty when it has no rows.
func NewClipList(empty string) ClipList {
	l := list.New(nil, clipDelegate{}, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	l.KeyMap.GoToStart.SetKeys("g")
	l.KeyMap.GoToEnd.SetKeys("G")

	return ClipList{list: l, empty: empty}
}

// Update handles cursor movement.
func (m ClipList) Update(msg tea.Msg) (ClipList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			m.list.CursorDown()
			return m, nil
		case "k", "up":
			m.list.CursorUp()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list.
func (m ClipList) View() string {
	if len(m.list.Items()) == 0 {
		return emptyStateStyle.Render(m.empty)
	}
	return m.list.View()
}

// SetItems replaces the rows, keeping the cursor on the same clip when it
// is still listed.
func (m *ClipList) SetItems(items []ClipItem) {
	keep, hadSelection := m.Selected()
	rows := make([]list.Item, len(items))
	sel := 0
	for i, it := range items {
		rows[i] = it
		if hadSelection && it.ID == keep.ID && it.Section == keep.Section {
			sel = i
		}
	}
	m.list.SetItems(rows)
	if len(rows) > 0 {
		m.list.Select(sel)
	}
}

// Len is the number of rows.
func (m ClipList) Len() int {
	return len(m.list.Items())
}

// Selected returns the row under the cursor.
func (m ClipList) Selected() (ClipItem, bool) {
	it, ok := m.list.SelectedItem().(ClipItem)
	return it, ok
}

// SetSize sets the width and height of the list.
func (m *ClipList) SetSize(w, h int) {
	m.list.SetWidth(w)
	m.list.SetHeight(h)
}
