package tui

import "github.com/charmbracelet/bubbles/key"

// browserKeys are the key bindings for the collection browser.
type browserKeys struct {
	Up        key.Binding
	Down      key.Binding
	Search    key.Binding
	Genre     key.Binding
	Status    key.Binding
	Available key.Binding
	Sort      key.Binding
	Reset     key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Lend      key.Binding
	Libraries key.Binding
	NewLib    key.Binding
	RenameLib key.Binding
	DeleteLib key.Binding
	Quit      key.Binding
}

func newBrowserKeys() browserKeys {
	return browserKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Genre: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "genre"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		Available: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "available only"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset filters"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Lend: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "lend/return"),
		),
		Libraries: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "libraries"),
		),
		NewLib: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new library"),
		),
		RenameLib: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename library"),
		),
		DeleteLib: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete library"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
