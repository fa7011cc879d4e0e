package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/tray"
)

func sampleView() tray.View {
	return tray.View{
		Banner:    "Total: 3, Page: 1/1",
		Pinned:    []tray.Item{{ID: 1, Type: clip.Text, Label: "pinned one"}},
		Favourite: []tray.Item{{ID: 2, Type: clip.HTML, Label: "fav"}},
		Recent:    []tray.Item{{ID: 3, Type: clip.Text, Label: "newest"}, {ID: 1, Type: clip.Text, Label: "pinned one"}},
	}
}

// TestTrayItems verifies the section order and current marker
func TestTrayItems(t *testing.T) {
	items := TrayItems(sampleView(), 1)
	want := []struct {
		id      int64
		section section
		current bool
	}{
		{1, sectionPinned, true},
		{2, sectionFavourite, false},
		{3, sectionRecent, false},
		{1, sectionRecent, true},
	}
	if len(items) != len(want) {
		t.Fatalf("len(TrayItems) = %d, want %d", len(items), len(want))
	}
	for i, w := range want {
		if items[i].ID != w.id || items[i].Section != w.section || items[i].Current != w.current {
			t.Errorf("item %d = %+v, want %+v", i, items[i], w)
		}
	}
}

// TestResultItems verifies results are flattened and trimmed
func TestResultItems(t *testing.T) {
	clips := []clip.Clip{{ID: 9, Type: clip.Text, SearchText: "line one\nline two that is long"}}
	items := ResultItems(clips, 12)
	if len(items) != 1 {
		t.Fatalf("len = %d", len(items))
	}
	if got := items[0].Label; got != "line one lin..." {
		t.Errorf("Label = %q", got)
	}
	if items[0].Section != sectionResult {
		t.Errorf("Section = %v", items[0].Section)
	}
}

// TestClipList_View_Empty tests the view with no items
func TestClipList_View_Empty(t *testing.T) {
	l := NewClipList("Nothing here")
	if !strings.Contains(l.View(), "Nothing here") {
		t.Error("expected view to show empty state message")
	}
	if _, ok := l.Selected(); ok {
		t.Error("expected no selection in empty list")
	}
}

// TestClipList_Navigation tests cursor movement
func TestClipList_Navigation(t *testing.T) {
	l := NewClipList("")
	l.SetSize(80, 20)
	l.SetItems(TrayItems(sampleView(), 0))

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if it, _ := l.Selected(); it.ID != 2 {
		t.Errorf("after j selected %d, want 2", it.ID)
	}
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if it, _ := l.Selected(); it.ID != 2 {
		t.Errorf("after j, down, k selected %d, want 2", it.ID)
	}
	if !strings.Contains(l.View(), "fav") {
		t.Error("expected rows in view")
	}
}

// TestClipList_SetItemsKeepsCursor tests the cursor follows its clip across reloads
func TestClipList_SetItemsKeepsCursor(t *testing.T) {
	l := NewClipList("")
	l.SetSize(80, 20)
	l.SetItems(TrayItems(sampleView(), 0))
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})

	v := sampleView()
	v.Pinned = nil
	l.SetItems(TrayItems(v, 0))
	if it, _ := l.Selected(); it.ID != 3 || it.Section != sectionRecent {
		t.Errorf("selected %+v, want clip 3 in recent", it)
	}
}
