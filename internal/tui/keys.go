package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Search     key.Binding
	AddFilter  key.Binding
	EditFilter key.Binding
	DropCell   key.Binding
	PopChip    key.Binding
	Sort       key.Binding
	Select     key.Binding
	SelectPage key.Binding
	Move       key.Binding
	Revert     key.Binding
	Notes      key.Binding
	Column     key.Binding
	Copy       key.Binding
	Reload     key.Binding
	Dismiss    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next table")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev table")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column right")),
		NextPage:   key.NewBinding(key.WithKeys("pgdown", "]"), key.WithHelp("]", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("pgup", "["), key.WithHelp("[", "prev page")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		AddFilter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "add filter")),
		EditFilter: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "edit filters")),
		DropCell:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "filter by cell")),
		PopChip:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "remove last chip")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		Select:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select row")),
		SelectPage: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
		Move:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move selected")),
		Revert:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "revert move")),
		Notes:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit notes")),
		Column:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "column colors")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Search, k.AddFilter, k.Select, k.Move, k.Notes, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.NextPage, k.PrevPage},
		{k.NextTab, k.PrevTab, k.Search, k.AddFilter, k.EditFilter, k.DropCell, k.PopChip, k.Sort},
		{k.Select, k.SelectPage, k.Move, k.Revert},
		{k.Notes, k.Column, k.Copy, k.Reload, k.Dismiss, k.Quit},
	}
}
