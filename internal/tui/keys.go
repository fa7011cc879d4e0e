package tui

import "github.com/charmbracelet/bubbles/key"

// keyBindings defines application-wide key bindings.
type keyBindings struct {
	Copy      key.Binding
	Preview   key.Binding
	Pin       key.Binding
	Favourite key.Binding
	Delete    key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	Search    key.Binding
	Back      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// newKeyBindings creates a new key binding set.
func newKeyBindings() keyBindings {
	return keyBindings{
		Copy:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "copy")),
		Preview:   key.NewBinding(key.WithKeys("v", " "), key.WithHelp("v", "preview")),
		Pin:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin/unpin")),
		Favourite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favourite")),
		Delete:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		NextPage:  key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/n", "older")),
		PrevPage:  key.NewBinding(key.WithKeys("left", "h", "b"), key.WithHelp("←/b", "newer")),
		FirstPage: key.NewBinding(key.WithKeys("home", "0"), key.WithHelp("0", "first page")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns key bindings for the short help overlay.
func (k keyBindings) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Preview, k.Search, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help overlay.
func (k keyBindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Copy, k.Preview, k.Pin, k.Favourite, k.Delete},
		{k.NextPage, k.PrevPage, k.FirstPage},
		{k.Search, k.Back, k.Help, k.Quit},
	}
}
