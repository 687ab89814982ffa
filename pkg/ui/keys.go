package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding of the explorer. It implements help.KeyMap.
type keyMap struct {
	Circular     key.Binding
	Hierarchical key.Binding
	Force        key.Binding
	ToggleView   key.Binding

	ZoomIn  key.Binding
	ZoomOut key.Binding
	Reset   key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding

	Next  key.Binding
	Prev  key.Binding
	Clear key.Binding
	Copy  key.Binding

	Snapshot key.Binding
	Legend   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Circular: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "circular"),
		),
		Hierarchical: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hierarchy"),
		),
		Force: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "force"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "global/personal"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Reset: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset view"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "pan up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "pan down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "pan left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan right"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next node"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev node"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy id"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save snapshot"),
		),
		Legend: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "legend"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Circular, k.Hierarchical, k.Force, k.ToggleView, k.ZoomIn, k.ZoomOut, k.Next, k.Legend, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Circular, k.Hierarchical, k.Force, k.ToggleView},
		{k.ZoomIn, k.ZoomOut, k.Reset, k.Up, k.Down, k.Left, k.Right},
		{k.Next, k.Prev, k.Clear, k.Copy},
		{k.Snapshot, k.Legend, k.Quit},
	}
}
