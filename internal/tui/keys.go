package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
	MoveTop     key.Binding
	MoveBottom  key.Binding
	Complete    key.Binding
	Archive     key.Binding
	Delete      key.Binding
	Expand      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Search      key.Binding
	Clear       key.Binding
	Tab         key.Binding
	Mode        key.Binding
	Sort        key.Binding
	SortDir     key.Binding
	Filter      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		MoveUp:      key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown:    key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		MoveTop:     key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "move to top")),
		MoveBottom:  key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "move to bottom")),
		Complete:    key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "complete")),
		Archive:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
		Delete:      key.NewBinding(key.WithKeys("D", "delete"), key.WithHelp("D", "delete")),
		Expand:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "todos/archive")),
		Mode:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "tasks/lists")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort field")),
		SortDir:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort direction")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "completed filter")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.Expand, k.MoveUp, k.MoveDown, k.Search, k.Tab, k.Mode, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown, k.MoveTop, k.MoveBottom},
		{k.Complete, k.Archive, k.Delete, k.Expand, k.ExpandAll, k.CollapseAll},
		{k.Search, k.Clear, k.Tab, k.Mode, k.Sort, k.SortDir, k.Filter},
		{k.Help, k.Quit},
	}
}
