package tui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/stormlightlabs/clipstash/internal/app"
	"github.com/stormlightlabs/clipstash/internal/clipboard"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

// newTestApp opens an app on a temporary data directory and captures texts
// in order, oldest first.
func newTestApp(t *testing.T, texts ...string) *app.App {
	t.Helper()
	board := clipboard.NewMemory()
	a, err := app.Open(context.Background(), app.Options{DataDir: t.TempDir(), Board: board})
	if err != nil {
		t.Fatalf("app.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	for _, text := range texts {
		board.Set(clipboard.Content{Text: text})
		if _, _, err := a.HandleClipboard(context.Background()); err != nil {
			t.Fatalf("capture %q: %v", text, err)
		}
	}
	go a.Drain(t.Context(), nil)
	return a
}

func loaded(t *testing.T, m RootModel) RootModel {
	t.Helper()
	next, _ := m.Update(m.Init()())
	return next.(RootModel)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// run feeds msg to the model and resolves the commands it produces a few
// levels deep, so an action is followed by its reload. Spinner ticks are
// dropped to keep the loop from sleeping.
func run(t *testing.T, m RootModel, msg tea.Msg) RootModel {
	t.Helper()
	next, cmd := m.Update(msg)
	return resolve(next.(RootModel), cmd, 4)
}

func resolve(m RootModel, cmd tea.Cmd, depth int) RootModel {
	if cmd == nil || depth == 0 {
		return m
	}
	switch out := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range out {
			m = resolve(m, c, depth-1)
		}
		return m
	case spinner.TickMsg:
		return m
	default:
		next, follow := m.Update(out)
		return resolve(next.(RootModel), follow, depth-1)
	}
}

// TestRootModel_Init verifies the first tray page is loaded
func TestRootModel_Init(t *testing.T) {
	a := newTestApp(t, "one", "two")
	m := loaded(t, NewRootModel(t.Context(), a, Options{}))

	if m.tray.Len() != 2 {
		t.Errorf("tray rows = %d, want 2", m.tray.Len())
	}
	if !contains(m.View(), "Total: 2, Page: 1/1") {
		t.Errorf("view missing banner:\n%s", m.View())
	}
}

// TestRootModel_View_Quitting tests the quitting view
func TestRootModel_View_Quitting(t *testing.T) {
	m := NewRootModel(t.Context(), newTestApp(t), Options{})
	m.quitting = true
	if view := m.View(); view != "Goodbye!\n" {
		t.Errorf("expected 'Goodbye!\\n', got %q", view)
	}
}

// TestRootModel_Update_ToggleHelp tests toggling help overlay
func TestRootModel_Update_ToggleHelp(t *testing.T) {
	m := NewRootModel(t.Context(), newTestApp(t), Options{})
	next, cmd := m.Update(runeKey('?'))
	m = next.(RootModel)
	if !m.showHelp || cmd != nil {
		t.Fatal("expected help shown without a command")
	}
	if !contains(m.View(), "Keyboard") {
		t.Error("expected help view to contain 'Keyboard'")
	}
	next, _ = m.Update(runeKey('?'))
	if next.(RootModel).showHelp {
		t.Error("expected help hidden after pressing ? again")
	}
}

// TestRootModel_Copy tests enter copies the selected clip
func TestRootModel_Copy(t *testing.T) {
	a := newTestApp(t, "one", "two")
	m := loaded(t, NewRootModel(t.Context(), a, Options{}))

	m = run(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = run(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.err != nil {
		t.Fatalf("copy error: %v", m.err)
	}
	if !contains(m.status, "copied clip") {
		t.Errorf("status = %q", m.status)
	}
	if m.view.Current == 0 {
		t.Error("expected current clip after copy")
	}
	it, _ := m.tray.Selected()
	if !it.Current {
		t.Error("expected the copied row to be marked current")
	}
}

// TestRootModel_PinAndFavourite tests label toggles move clips into sections
func TestRootModel_PinAndFavourite(t *testing.T) {
	ctx := t.Context()
	a := newTestApp(t, "one")
	m := loaded(t, NewRootModel(ctx, a, Options{}))

	m = run(t, m, runeKey('p'))
	if len(m.view.Pinned) != 1 {
		t.Fatalf("pinned = %v, want one clip", m.view.Pinned)
	}
	m = run(t, m, runeKey('f'))
	if len(m.view.Favourite) != 1 {
		t.Fatalf("favourite = %v, want one clip", m.view.Favourite)
	}
	id := m.view.Recent[0].ID
	c, err := a.Clip(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Labels) != 2 {
		t.Errorf("labels = %v", c.Labels)
	}
	if m.tray.Len() != 3 {
		t.Errorf("tray rows = %d, want pinned, favourite and recent", m.tray.Len())
	}
}

// TestRootModel_Delete tests deleting the selected clip
func TestRootModel_Delete(t *testing.T) {
	a := newTestApp(t, "one", "two")
	m := loaded(t, NewRootModel(t.Context(), a, Options{}))

	m = run(t, m, runeKey('x'))
	if m.tray.Len() != 1 || m.view.Recent[0].Label != "one" {
		t.Errorf("after delete recent = %+v", m.view.Recent)
	}
}

// TestRootModel_Paging tests page keys
func TestRootModel_Paging(t *testing.T) {
	ctx := t.Context()
	a := newTestApp(t, "c1", "c2", "c3")
	if err := a.SetConfig(ctx, "clip_per_page", "2"); err != nil {
		t.Fatal(err)
	}
	m := loaded(t, NewRootModel(ctx, a, Options{}))

	m = run(t, m, runeKey('n'))
	if m.view.Page != 1 || m.view.Recent[0].Label != "c1" {
		t.Errorf("page after n = %d %+v", m.view.Page, m.view.Recent)
	}
	m = run(t, m, runeKey('0'))
	if m.view.Page != 0 {
		t.Errorf("page after 0 = %d", m.view.Page)
	}
}

// TestRootModel_SearchFlow tests typing a query and returning to the tray
func TestRootModel_SearchFlow(t *testing.T) {
	a := newTestApp(t, "apple", "banana")
	m := loaded(t, NewRootModel(t.Context(), a, Options{SearchLimit: 10}))

	next, _ := m.Update(runeKey('/'))
	m = next.(RootModel)
	if m.mode != modeSearch || !m.search.Focused() {
		t.Fatal("expected focused search after /")
	}
	for _, r := range "nan" {
		next, _ = m.Update(runeKey(r))
		m = next.(RootModel)
	}
	m = run(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeResults {
		t.Fatalf("mode = %v, want results", m.mode)
	}
	if m.results.Len() != 1 {
		t.Errorf("results = %d, want 1", m.results.Len())
	}

	m = run(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeTray {
		t.Errorf("mode after esc = %v, want tray", m.mode)
	}
}

// TestRootModel_Preview tests opening and leaving the preview
func TestRootModel_Preview(t *testing.T) {
	a := newTestApp(t, "preview me")
	m := loaded(t, NewRootModel(t.Context(), a, Options{}))
	m = run(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	m = run(t, m, runeKey('v'))
	if m.mode != modePreview {
		t.Fatalf("mode = %v, want preview", m.mode)
	}
	if !contains(m.View(), "preview me") {
		t.Errorf("preview view:\n%s", m.View())
	}

	m = run(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeTray {
		t.Errorf("mode after esc = %v", m.mode)
	}
}

// TestRootModel_Refresh tests external changes are picked up
func TestRootModel_Refresh(t *testing.T) {
	ctx := t.Context()
	a := newTestApp(t, "one")
	m := loaded(t, NewRootModel(ctx, a, Options{}))

	first := m.view.Recent[0].ID
	if err := a.DeleteClip(ctx, first); err != nil {
		t.Fatal(err)
	}
	m = run(t, m, refreshMsg{})
	if m.tray.Len() != 0 {
		t.Errorf("tray rows after refresh = %d", m.tray.Len())
	}
}

// TestRootModel_Integration_QuitFlow tests quitting using teatest
func TestRootModel_Integration_QuitFlow(t *testing.T) {
	a := newTestApp(t, "hello")
	tm := teatest.NewTestModel(t, NewRootModel(t.Context(), a, Options{}), teatest.WithInitialTermSize(80, 40))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Total: 1"))
	}, teatest.WithDuration(2*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, tm.FinalOutput(t)); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Goodbye")) {
		t.Error("expected output to contain 'Goodbye'")
	}
}

// TestRootModel_FinalModel tests getting the final model
func TestRootModel_FinalModel(t *testing.T) {
	a := newTestApp(t)
	tm := teatest.NewTestModel(t, NewRootModel(t.Context(), a, Options{}), teatest.WithInitialTermSize(80, 40))
	tm.Send(runeKey('q'))

	m, ok := tm.FinalModel(t, teatest.WithFinalTimeout(time.Second)).(RootModel)
	if !ok {
		t.Fatal("expected RootModel type")
	}
	if !m.quitting {
		t.Error("expected model to be in quitting state")
	}
}
