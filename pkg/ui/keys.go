package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextPort   key.Binding
	PrevPort   key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Inc        key.Binding
	Dec        key.Binding
	IncCoarse  key.Binding
	DecCoarse  key.Binding
	Click      key.Binding
	Add        key.Binding
	Delete     key.Binding
	Connect    key.Binding
	Disconnect key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev node")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next node")),
		NextPort:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next input")),
		PrevPort:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev input")),
		NextField:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev field")),
		Inc:        key.NewBinding(key.WithKeys("="), key.WithHelp("=", "+0.1")),
		Dec:        key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "-0.1")),
		IncCoarse:  key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "+1")),
		DecCoarse:  key.NewBinding(key.WithKeys("_"), key.WithHelp("_", "-1")),
		Click:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "click body")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add node")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete node")),
		Connect:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect")),
		Disconnect: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "disconnect")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Click, k.Connect, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPort, k.PrevPort},
		{k.NextField, k.PrevField, k.Inc, k.Dec, k.IncCoarse, k.DecCoarse},
		{k.Click, k.Add, k.Delete, k.Connect, k.Disconnect},
		{k.Cancel, k.Help, k.Quit},
	}
}
