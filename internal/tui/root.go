package tui

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/render"
	"github.com/stormlightlabs/clipstash/internal/tray"
)

const defaultResultWidth = 60

// appMode represents the current application state.
type appMode int

const (
	modeTray appMode = iota
	modeSearch
	modeResults
	modePreview
)

// trayLoadedMsg carries a freshly built tray page.
type trayLoadedMsg struct {
	view tray.View
	err  error
}

// actionMsg reports the outcome of an operation on a clip.
type actionMsg struct {
	status string
	err    error
}

// refreshMsg is sent when the store changed outside the browser.
type refreshMsg struct{}

// RootModel is the top-level application model that orchestrates all components.
type RootModel struct {
	backend  Backend
	ctx      context.Context
	opts     Options
	mode     appMode
	prev     appMode
	quitting bool
	showHelp bool
	view     tray.View
	tray     ClipList
	results  ClipList
	search   SearchModel
	preview  PreviewModel
	help     help.Model
	keys     keyBindings
	status   string
	err      error
}

// NewRootModel creates a new root application model.
func NewRootModel(ctx context.Context, b Backend, opts Options) RootModel {
	if opts.ResultWidth <= 0 {
		opts.ResultWidth = defaultResultWidth
	}
	return RootModel{
		backend: b,
		ctx:     ctx,
		opts:    opts,
		mode:    modeTray,
		tray:    NewClipList("No clips yet. Copy something."),
		results: NewClipList("No results found. Try a different search term."),
		search:  NewSearchModel(ctx, b, opts.SearchLimit),
		preview: NewPreviewModel(ctx, b, render.Options{Width: opts.PreviewWidth, Dark: opts.Dark}),
		help:    help.New(),
		keys:    newKeyBindings(),
	}
}

// Init loads the first tray page.
func (m RootModel) Init() tea.Cmd {
	return m.loadTray(m.backend.Tray)
}

func (m RootModel) loadTray(fn func(context.Context) (tray.View, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		v, err := fn(ctx)
		return trayLoadedMsg{view: v, err: err}
	}
}

// reload refreshes the tray and, when results are shown, the search.
func (m RootModel) reload() tea.Cmd {
	cmds := []tea.Cmd{m.loadTray(m.backend.Tray)}
	if (m.mode == modeResults || m.prev == modeResults) && m.search.Query() != "" {
		cmds = append(cmds, m.search.performSearch(m.search.Query()))
	}
	return tea.Batch(cmds...)
}

// Update processes messages and returns the updated model.
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.tray.SetSize(msg.Width, msg.Height-6)
		m.results.SetSize(msg.Width, msg.Height-8)
		m.preview.SetSize(msg.Width, msg.Height-3)
		m.help.Width = msg.Width
		return m, nil

	case trayLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.view = msg.view
		m.tray.SetItems(TrayItems(msg.view, msg.view.Current))
		return m, nil

	case searchTickMsg:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd

	case searchResultsMsg:
		m.search.SetResults(msg.query, len(msg.clips), nil)
		m.results.SetItems(ResultItems(msg.clips, m.opts.ResultWidth))
		if len(msg.clips) > 0 && m.mode == modeSearch {
			m.mode = modeResults
			m.search = m.search.Blur()
		}
		return m, nil

	case searchErrMsg:
		m.search.SetResults(m.search.Value(), 0, msg.err)
		return m, nil

	case actionMsg:
		m.status, m.err = msg.status, msg.err
		return m, m.reload()

	case refreshMsg:
		return m, m.reload()

	case previewLoadedMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m RootModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.mode == modeSearch {
		if key.Matches(msg, m.keys.Back) {
			m.search = m.search.Reset().Blur()
			m.mode = modeTray
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Back):
		switch m.mode {
		case modePreview:
			m.mode = m.prev
		case modeResults:
			m.search = m.search.Reset()
			m.mode = modeTray
		}
		m.showHelp = false
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.prev = m.mode
		m.mode = modeSearch
		var cmd tea.Cmd
		m.search, cmd = m.search.Focus()
		return m, cmd
	}

	if m.mode == modePreview {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	if m.mode == modeTray {
		switch {
		case key.Matches(msg, m.keys.NextPage):
			return m, m.loadTray(func(ctx context.Context) (tray.View, error) { return m.backend.TurnPage(ctx, 1) })
		case key.Matches(msg, m.keys.PrevPage):
			return m, m.loadTray(func(ctx context.Context) (tray.View, error) { return m.backend.TurnPage(ctx, -1) })
		case key.Matches(msg, m.keys.FirstPage):
			return m, m.loadTray(m.backend.FirstPage)
		}
	}

	item, ok := m.list().Selected()
	if ok {
		switch {
		case key.Matches(msg, m.keys.Copy):
			return m, m.act(item.ID, m.copyClip)
		case key.Matches(msg, m.keys.Pin):
			return m, m.act(item.ID, m.switchPinned)
		case key.Matches(msg, m.keys.Favourite):
			return m, m.act(item.ID, m.switchFavourite)
		case key.Matches(msg, m.keys.Delete):
			return m, m.act(item.ID, m.deleteClip)
		case key.Matches(msg, m.keys.Preview):
			m.prev = m.mode
			m.mode = modePreview
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Load(item.ID)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if m.mode == modeResults {
		m.results, cmd = m.results.Update(msg)
	} else {
		m.tray, cmd = m.tray.Update(msg)
	}
	return m, cmd
}

func (m RootModel) list() ClipList {
	if m.mode == modeResults {
		return m.results
	}
	return m.tray
}

func (m RootModel) act(id int64, fn func(context.Context, int64) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		status, err := fn(ctx, id)
		return actionMsg{status: status, err: err}
	}
}

func (m RootModel) copyClip(ctx context.Context, id int64) (string, error) {
	if err := m.backend.CopyClipToClipboard(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("copied clip %d", id), nil
}

func (m RootModel) switchPinned(ctx context.Context, id int64) (string, error) {
	pinned, err := m.backend.SwitchPinned(ctx, id)
	if err != nil {
		return "", err
	}
	if pinned {
		return fmt.Sprintf("pinned clip %d", id), nil
	}
	return fmt.Sprintf("unpinned clip %d", id), nil
}

func (m RootModel) switchFavourite(ctx context.Context, id int64) (string, error) {
	c, err := m.backend.Clip(ctx, id)
	if err != nil {
		return "", err
	}
	fav := !slices.Contains(c.Labels, clip.LabelFavourite)
	if err := m.backend.ChangeFavourite(ctx, id, fav); err != nil {
		return "", err
	}
	if fav {
		return fmt.Sprintf("clip %d added to favourites", id), nil
	}
	return fmt.Sprintf("clip %d removed from favourites", id), nil
}

func (m RootModel) deleteClip(ctx context.Context, id int64) (string, error) {
	if err := m.backend.DeleteClip(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("deleted clip %d", id), nil
}

// View renders the UI as a string.
func (m RootModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.showHelp {
		return m.renderHelpView()
	}

	helpText := m.help.View(m.keys)
	switch m.mode {
	case modeSearch, modeResults:
		return lipgloss.JoinVertical(lipgloss.Left, m.search.View(), "", m.results.View(), m.renderStatus(), helpText)
	case modePreview:
		return lipgloss.JoinVertical(lipgloss.Left, m.preview.View(), "", helpText)
	default:
		header := lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("clipstash"), "  ", bannerStyle.Render(m.view.Banner))
		return lipgloss.JoinVertical(lipgloss.Left, header, m.tray.View(), m.renderStatus(), helpText)
	}
}

func (m RootModel) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	if m.status != "" {
		return accentStyle.Render(m.status)
	}
	return ""
}

// renderHelpView renders the full help overlay.
func (m RootModel) renderHelpView() string {
	h := m.help
	h.ShowAll = true
	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Keyboard Shortcuts"),
		"",
		h.View(m.keys),
		"",
		helpStyle.Render("Press ? to close help"),
	)
}
