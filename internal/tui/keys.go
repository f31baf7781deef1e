package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the shopping list TUI. Bindings
// are context-sensitive: the same key may mean different things in the
// overview, the active list, and the history view.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	Open    key.Binding // Overview: open the selected list.
	Back    key.Binding // Leave the current view or cancel an edit.
	Confirm key.Binding // Submit the field being edited.
	Next    key.Binding // Move to the next form field.

	NewList key.Binding
	History key.Binding
	Refresh key.Binding

	// Active list.
	AddItem    key.Binding
	Toggle     key.Binding
	DeleteItem key.Binding
	MarkDone   key.Binding
	DeleteList key.Binding
	Rename     key.Binding
	Yes        key.Binding
	No         key.Binding

	// History filters and reuse.
	FilterAll     key.Binding
	FilterCreated key.Binding
	FilterReused  key.Binding
	Reuse         key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style j/k work
// alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "save"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next field"),
	),
	NewList: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new list"),
	),
	History: key.NewBinding(
		key.WithKeys("H"),
		key.WithHelp("H", "history"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "refresh"),
	),
	AddItem: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add item"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("Space", "toggle"),
	),
	DeleteItem: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "delete item"),
	),
	MarkDone: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "mark done"),
	),
	DeleteList: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete list"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "no"),
	),
	FilterAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all"),
	),
	FilterCreated: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "created"),
	),
	FilterReused: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "reused"),
	),
	Reuse: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "reuse"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpLine renders bindings as "key desc" pairs for the footer.
func helpLine(bindings ...key.Binding) string {
	line := ""
	for _, binding := range bindings {
		if !binding.Enabled() {
			continue
		}
		help := binding.Help()
		if line != "" {
			line += "  "
		}
		line += help.Key + " " + help.Desc
	}
	return line
}
