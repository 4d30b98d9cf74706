package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Reload     key.Binding
	Admin      key.Binding
	ToggleMode key.Binding
	Escape     key.Binding

	// Search
	Tab     key.Binding
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Focus   key.Binding
	Clear   key.Binding

	// Detail card
	PageUp   key.Binding
	PageDown key.Binding

	// Admin
	Ping    key.Binding
	Refresh key.Binding
	LogTail key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "Reload data"),
		),
		Admin: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Admin screen"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Typeahead/selector"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Dismiss / leave input"),
		),

		// Search
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Switch ID/Spool"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "Move down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Select"),
		),
		Focus: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/", "Type a search"),
		),
		Clear: key.NewBinding(
			key.WithKeys("backspace", "delete"),
			key.WithHelp("backspace", "Clear selection"),
		),

		// Detail card
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Scroll card up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Scroll card down"),
		),

		// Admin
		Ping: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Ping endpoint"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Force refresh"),
		),
		LogTail: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Reload log tail"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Search
		{k.Focus, k.Tab, k.Up, k.Down, k.Confirm, k.Escape, k.Clear},
		// Card
		{k.PageUp, k.PageDown},
		// Screens
		{k.ToggleMode, k.Reload, k.Admin},
		// Admin
		{k.Refresh, k.Ping, k.LogTail},
		// General
		{k.CycleTheme, k.Help, k.Quit},
	}
}
