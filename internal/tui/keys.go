package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the application key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Sync      key.Binding
	Thumbs    key.Binding
	Check     key.Binding
	Export    key.Binding
	Sort      key.Binding
	Search    key.Binding
	Filter    key.Binding
	ClearFind key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		Sync:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync")),
		Thumbs:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "thumbnails")),
		Check:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "availability")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Sort:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		ClearFind: key.NewBinding(key.WithKeys("esc")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
