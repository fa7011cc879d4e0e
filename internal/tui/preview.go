package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stormlightlabs/clipstash/internal/render"
)

// previewLoadedMsg is sent when a clip is fetched and rendered.
type previewLoadedMsg struct {
	id      int64
	title   string
	content string
	err     error
}

// PreviewModel shows one clip in a scrollable viewport.
type PreviewModel struct {
	backend  Backend
	ctx      context.Context
	opts     render.Options
	viewport viewport.Model
	spinner  spinner.Model
	id       int64
	title    string
	content  string
	loading  bool
	err      error
}

// NewPreviewModel creates a preview without content.
func NewPreviewModel(ctx context.Context, b Backend, opts render.Options) PreviewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle
	return PreviewModel{backend: b, ctx: ctx, opts: opts, viewport: viewport.New(0, 0), spinner: sp}
}

// Load starts fetching clip id.
func (m PreviewModel) Load(id int64) (PreviewModel, tea.Cmd) {
	m.id = id
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.load(id))
}

func (m PreviewModel) load(id int64) tea.Cmd {
	return func() tea.Msg {
		c, err := m.backend.Clip(m.ctx, id)
		if err != nil {
			return previewLoadedMsg{id: id, err: err}
		}
		body, err := render.Clip(c, m.opts)
		if err != nil {
			return previewLoadedMsg{id: id, err: err}
		}
		title := fmt.Sprintf("#%d %s", c.ID, c.Type)
		if len(c.Labels) > 0 {
			title += " [" + strings.Join(c.Labels, ", ") + "]"
		}
		return previewLoadedMsg{id: id, title: title, content: body}
	}
}

// Update handles messages.
func (m PreviewModel) Update(msg tea.Msg) (PreviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case previewLoadedMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.title = msg.title
		m.content = msg.content
		m.viewport.SetContent(m.content)
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			m.viewport.ScrollDown(1)
			return m, nil
		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "d":
			m.viewport.HalfPageDown()
			return m, nil
		case "u":
			m.viewport.HalfPageUp()
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetSize sizes the viewport, leaving a row for the header.
func (m *PreviewModel) SetSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = max(h-1, 1)
}

// View renders the preview.
func (m PreviewModel) View() string {
	if m.err != nil {
		return errorStyle.Render("Error loading clip: " + m.err.Error())
	}
	if m.loading {
		return lipgloss.JoinHorizontal(lipgloss.Left, m.spinner.View(), dimStyle.Render(" Loading clip..."))
	}
	if m.content == "" {
		return emptyStateStyle.Render("Nothing to preview.")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, previewTitleStyle.Render(m.title), previewBackStyle.Render("  esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
}

// ID returns the clip being previewed.
func (m PreviewModel) ID() int64 {
	return m.id
}
