package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stormlightlabs/clipstash/internal/clip"
)

// searchTickMsg is sent when the debounce timer expires.
type searchTickMsg struct{ query string }

// searchResultsMsg is sent when search results are ready.
type searchResultsMsg struct {
	clips []clip.Clip
	query string
}

// searchErrMsg is sent when a search fails.
type searchErrMsg struct{ err error }

// ParseQuery turns the search box into constraints. Words of the form
// #label and -#label filter by label; the rest is matched as a substring,
// or as a regular expression after "re:", or fuzzily after "~".
func ParseQuery(query string) []clip.Constraint {
	var (
		cs    []clip.Constraint
		words []string
	)
	for _, w := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(w, "-#") && len(w) > 2:
			cs = append(cs, clip.WithoutLabel(w[2:]))
		case strings.HasPrefix(w, "#") && len(w) > 1:
			cs = append(cs, clip.WithLabel(w[1:]))
		default:
			words = append(words, w)
		}
	}

	text := strings.Join(words, " ")
	switch {
	case strings.HasPrefix(text, "re:"):
		cs = append(cs, clip.Regex(strings.TrimPrefix(text, "re:")))
	case strings.HasPrefix(text, "~"):
		cs = append(cs, clip.Fuzzy(strings.TrimPrefix(text, "~")))
	case text != "":
		cs = append(cs, clip.Contains(text))
	}
	return cs
}

// SearchModel is the search input component.
type SearchModel struct {
	input       textinput.Model
	backend     Backend
	ctx         context.Context
	limit       int
	debounce    time.Duration
	lastQuery   string
	resultCount int
	searching   bool
	err         error
}

// NewSearchModel creates a new search model.
func NewSearchModel(ctx context.Context, b Backend, limit int) SearchModel {
	input := textinput.New()
	input.Placeholder = "Search clips (#label, re:pattern, ~fuzzy)"
	d := 150 * time.Millisecond
	return SearchModel{input: input, backend: b, ctx: ctx, limit: limit, debounce: d}
}

// Init returns the initial command.
func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if q := m.input.Value(); q != "" {
				m.searching = true
				return m, m.performSearch(q)
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		query := m.input.Value()
		if query != m.lastQuery && len(query) >= 2 {
			m.lastQuery = query
			return m, tea.Sequence(cmd, m.startDebounce(query))
		}
		return m, cmd

	case searchTickMsg:
		if msg.query == m.input.Value() {
			m.searching = true
			return m, m.performSearch(msg.query)
		}
		return m, nil
	}

	return m, nil
}

// View renders the search input.
func (m SearchModel) View() string {
	var status string
	switch {
	case m.err != nil:
		status = errorStyle.Render(" Search failed: " + m.err.Error())
	case m.searching:
		status = dimStyle.Render(" Searching...")
	case m.resultCount > 0:
		status = accentStyle.Render(" " + strconv.Itoa(m.resultCount) + " results")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, searchInputStyle.Render(m.input.View()), status)
}

// Value returns the current search query.
func (m SearchModel) Value() string {
	return m.input.Value()
}

// Focused returns whether the input is focused.
func (m SearchModel) Focused() bool {
	return m.input.Focused()
}

// Focus sets focus on the input.
func (m SearchModel) Focus() (SearchModel, tea.Cmd) {
	return m, m.input.Focus()
}

// Blur removes focus from the input.
func (m SearchModel) Blur() SearchModel {
	m.input.Blur()
	return m
}

// Reset clears the query and the result status.
func (m SearchModel) Reset() SearchModel {
	m.input.Reset()
	m.lastQuery = ""
	m.resultCount = 0
	m.searching = false
	m.err = nil
	return m
}

// Query returns the current query, to re-run after the store changes.
func (m SearchModel) Query() string {
	return m.lastQuery
}

// startDebounce starts the debounce timer.
func (m SearchModel) startDebounce(query string) tea.Cmd {
	return tea.Tick(m.debounce, func(_ time.Time) tea.Msg {
		return searchTickMsg{query: query}
	})
}

// performSearch executes the search query.
func (m SearchModel) performSearch(query string) tea.Cmd {
	cs := ParseQuery(query)
	if m.limit > 0 {
		cs = append(cs, clip.MaxResults(int64(m.limit)))
	}
	return func() tea.Msg {
		clips, err := m.backend.SearchClips(m.ctx, cs)
		if err != nil {
			return searchErrMsg{err: err}
		}
		return searchResultsMsg{clips: clips, query: query}
	}
}

// SetResults updates the model with search results.
func (m *SearchModel) SetResults(query string, count int, err error) {
	m.searching = false
	m.lastQuery = query
	m.resultCount = count
	m.err = err
}
