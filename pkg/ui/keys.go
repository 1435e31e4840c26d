package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the viewer's bindings.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfUp       key.Binding
	HalfDown     key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Parent       key.Binding
	NextSibling  key.Binding
	PrevSibling  key.Binding
	Goto         key.Binding
	ToggleBodies key.Binding
	ToggleRoot   key.Binding
	MoreOverscan key.Binding
	LessOverscan key.Binding
	Copy         key.Binding
	Reload       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:       key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup/b", "page up")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown", "f", " "), key.WithHelp("pgdn/f", "page down")),
		HalfUp:       key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
		HalfDown:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),
		Top:          key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Parent:       key.NewBinding(key.WithKeys("p", "left", "h"), key.WithHelp("p", "scroll to header")),
		NextSibling:  key.NewBinding(key.WithKeys("]", "n"), key.WithHelp("]", "next sibling")),
		PrevSibling:  key.NewBinding(key.WithKeys("[", "N"), key.WithHelp("[", "prev sibling")),
		Goto:         key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "go to offset/@id")),
		ToggleBodies: key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "toggle bodies")),
		ToggleRoot:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "toggle root row")),
		MoreOverscan: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "overscan")),
		LessOverscan: key.NewBinding(key.WithKeys("-")),
		Copy:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
		Reload:       key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "reload")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit, k.Down, k.Up, k.PageDown, k.Parent, k.Goto}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.HalfUp, k.HalfDown},
		{k.Top, k.Bottom, k.Parent, k.NextSibling, k.PrevSibling, k.Goto},
		{k.ToggleBodies, k.ToggleRoot, k.MoreOverscan, k.Copy, k.Reload, k.Quit},
	}
}
