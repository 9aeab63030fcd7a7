package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/rebeliceyang/lazydb/internal/ui/help"
)

// KeyMap holds the application level key bindings. Tree navigation keys are
// handled by the tree view itself and only listed here for help.
type KeyMap struct {
	Quit        key.Binding
	Help        key.Binding
	SwitchPanel key.Binding
	Filter      key.Binding
	Back        key.Binding

	// Tree
	TreeUp     key.Binding
	TreeDown   key.Binding
	TreeJump   key.Binding
	TreeParent key.Binding
	Select     key.Binding

	// Sample table
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	CopyRow  key.Binding
	CopyCell key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q, ctrl+c", "Quit application"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		SwitchPanel: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Switch panel focus"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter tables (!name excludes)"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close help or filter"),
		),

		TreeUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "Move up"),
		),
		TreeDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "Move down"),
		),
		TreeJump: key.NewBinding(
			key.WithKeys("g", "G", "home", "end"),
			key.WithHelp("g/G", "First / last entry"),
		),
		TreeParent: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "Go to parent"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " ", "right", "l"),
			key.WithHelp("enter/space", "Select table and sample rows"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "Previous row"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "Next row"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "Previous column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "Next column"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup, ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn, ctrl+d", "Page down"),
		),
		CopyRow: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy row"),
		),
		CopyCell: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Copy cell"),
		),
	}
}

// HelpSections groups the bindings for the help overlay
func (k KeyMap) HelpSections() []help.Section {
	return []help.Section{
		{Title: "Global", Bindings: []key.Binding{k.Help, k.Quit, k.SwitchPanel, k.Filter, k.Back}},
		{Title: "Tables", Bindings: []key.Binding{k.TreeUp, k.TreeDown, k.TreeJump, k.TreeParent, k.Select}},
		{Title: "Sample", Bindings: []key.Binding{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.CopyRow, k.CopyCell}},
	}
}
