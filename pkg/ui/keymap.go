package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the browser.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	cycleGenre key.Binding
	refresh    key.Binding
	del        key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		cycleGenre: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "cycle genre filter")),
		refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		del:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete book")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.cycleGenre, k.refresh, k.del, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.cycleGenre, k.refresh},
		{k.del, k.quit},
	}
}
