package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the normal-mode key bindings. Several bindings share keys
// and are told apart by the focused pane.
type KeyMap struct {
	// Navigation: list movement or detail scrolling depending on focus.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Open        key.Binding // List: show and focus the detail pane.
	Back        key.Binding // Detail: hide the detail pane.
	ClearFilter key.Binding // List: drop the committed filter.
	FocusToggle key.Binding
	SplitShrink key.Binding
	SplitGrow   key.Binding

	// Mutations (detail focus).
	Edit           key.Binding
	CloseReopen    key.Binding
	Comment        key.Binding
	ToggleDeferred key.Binding

	ToggleClosed key.Binding // List focus; shares its key with Comment.
	ToggleLabels key.Binding
	Search       key.Binding
	Create       key.Binding
	CycleTheme   key.Binding
	Refresh      key.Binding
	CopyID       key.Binding
	Help         key.Binding
	Suspend      key.Binding
	Quit         key.Binding
}

// DefaultKeyMap is the built-in key binding set: vim-style keys alongside
// arrows and page keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("u", "b", "pgup", "ctrl+k"),
		key.WithHelp("u/b", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("d", "f", "pgdown", "ctrl+j"),
		key.WithHelp("d/f", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("Enter/l", "open detail"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "h", "left"),
		key.WithHelp("Esc/h", "close detail"),
	),
	ClearFilter: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch pane"),
	),
	SplitShrink: key.NewBinding(
		key.WithKeys("<"),
		key.WithHelp("<", "shrink list"),
	),
	SplitGrow: key.NewBinding(
		key.WithKeys(">"),
		key.WithHelp(">", "grow list"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit issue"),
	),
	CloseReopen: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "close/reopen"),
	),
	Comment: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "add comment"),
	),
	ToggleDeferred: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "toggle deferred"),
	),
	ToggleClosed: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "show/hide closed"),
	),
	ToggleLabels: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "toggle labels"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Create: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add issue"),
	),
	CycleTheme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "cycle theme"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	CopyID: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy id"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Suspend: key.NewBinding(
		key.WithKeys("ctrl+z"),
		key.WithHelp("C-z", "suspend"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpSection is one titled group of the help overlay.
type helpSection struct {
	title    string
	bindings []key.Binding
}

func (k KeyMap) helpSections() []helpSection {
	return []helpSection{
		{"Navigation", []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.Open, k.Back, k.FocusToggle}},
		{"Issues", []key.Binding{k.Create, k.Edit, k.CloseReopen, k.Comment, k.ToggleDeferred, k.CopyID}},
		{"View", []key.Binding{k.Search, k.ClearFilter, k.ToggleClosed, k.ToggleLabels, k.SplitShrink, k.SplitGrow, k.CycleTheme, k.Refresh}},
		{"General", []key.Binding{k.Help, k.Suspend, k.Quit}},
	}
}
