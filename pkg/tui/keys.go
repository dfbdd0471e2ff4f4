package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	More      key.Binding
	Search    key.Binding
	Status    key.Binding
	Priority  key.Binding
	Clear     key.Binding
	Archived  key.Binding
	Switch    key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		MoveLeft:  key.NewBinding(key.WithKeys("<", "shift+left", "H"), key.WithHelp("<", "move back")),
		MoveRight: key.NewBinding(key.WithKeys(">", "shift+right", "L"), key.WithHelp(">", "move forward")),
		More:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Status:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		Priority:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority filter")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		Archived:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archived")),
		Switch:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "list/board")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Search, k.MoveRight, k.More, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.MoveLeft, k.MoveRight, k.More},
		{k.Search, k.Status, k.Priority, k.Clear, k.Archived},
		{k.Switch, k.Refresh, k.Help, k.Quit},
	}
}
