package tui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

// TestNewKeyBindings verifies every binding has keys and help text
func TestNewKeyBindings(t *testing.T) {
	kb := newKeyBindings()
	for _, group := range kb.FullHelp() {
		for _, b := range group {
			if len(b.Keys()) == 0 {
				t.Errorf("binding %q has no keys", b.Help().Desc)
			}
			if b.Help().Key == "" || b.Help().Desc == "" {
				t.Errorf("binding %v has no help", b.Keys())
			}
		}
	}
}

// TestKeyBindings_Quit verifies quit binding
func TestKeyBindings_Quit(t *testing.T) {
	keys := newKeyBindings().Quit.Keys()
	if !slices.Contains(keys, "q") || !slices.Contains(keys, "ctrl+c") {
		t.Errorf("Quit keys = %v", keys)
	}
}

// TestKeyBindings_NoClashes verifies list actions use distinct keys
func TestKeyBindings_NoClashes(t *testing.T) {
	kb := newKeyBindings()
	seen := map[string]string{}
	for _, b := range []key.Binding{kb.Copy, kb.Preview, kb.Pin, kb.Favourite, kb.Delete, kb.NextPage, kb.PrevPage, kb.FirstPage, kb.Search, kb.Back, kb.Help, kb.Quit} {
		for _, k := range b.Keys() {
			if other, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %q and %q", k, other, b.Help().Desc)
			}
			seen[k] = b.Help().Desc
		}
	}
}

// TestKeyBindings_ShortHelp verifies the short help is a subset of the full help
func TestKeyBindings_ShortHelp(t *testing.T) {
	kb := newKeyBindings()
	var full []string
	for _, group := range kb.FullHelp() {
		for _, b := range group {
			full = append(full, b.Help().Desc)
		}
	}
	for _, b := range kb.ShortHelp() {
		if !slices.Contains(full, b.Help().Desc) {
			t.Errorf("short help %q missing from full help", b.Help().Desc)
		}
	}
}
