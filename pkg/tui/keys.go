package tui

import "github.com/charmbracelet/bubbles/key"

type global struct {
	Quit   key.Binding
	Switch key.Binding
}

var keys = global{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
	Switch: key.NewBinding(
		key.WithKeys("tab", "ctrl+o"),
		key.WithHelp("tab", "conversations"),
	),
}
