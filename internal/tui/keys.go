package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the book form UI.
type KeyMap struct {
	// List pane.
	Up       key.Binding
	Down     key.Binding
	Edit     key.Binding
	Delete   key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Refresh  key.Binding
	New      key.Binding

	// Form pane.
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding

	FocusToggle key.Binding

	// Confirmation prompt.
	Yes key.Binding
	No  key.Binding

	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap uses vim-style list movement alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "x"),
		key.WithHelp("d", "delete"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("n", "right", "pgdown"),
		key.WithHelp("n/→", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("p", "left", "pgup"),
		key.WithHelp("p/←", "prev page"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	New: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	NextField: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "prev field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter", "ctrl+s"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "switch pane"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "no"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}
