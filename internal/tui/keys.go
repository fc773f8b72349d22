package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Focus     key.Binding
	Submit    key.Binding
	Forecast  key.Binding
	Analyze   key.Binding
	Theme     key.Binding
	PrevAsset key.Binding
	NextAsset key.Binding
	Period    key.Binding
	Up        key.Binding
	Down      key.Binding
	NewHold   key.Binding
	Delete    key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

type confirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

var keys = keyMap{
	Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "activate")),
	Forecast:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "forecast")),
	Analyze:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analysis")),
	Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	PrevAsset: key.NewBinding(key.WithKeys("[", "left"), key.WithHelp("[", "prev asset")),
	NextAsset: key.NewBinding(key.WithKeys("]", "right"), key.WithHelp("]", "next asset")),
	Period:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "period")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "select")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "select")),
	NewHold:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add holding")),
	Delete:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove holding")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var formKeys = formKeyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

var confirmKeys = confirmKeyMap{
	Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "remove")),
	No:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Submit, k.Forecast, k.Analyze, k.PrevAsset, k.NextAsset, k.Period, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Submit, k.Forecast, k.Analyze, k.Refresh},
		{k.PrevAsset, k.NextAsset, k.Period, k.Theme},
		{k.Up, k.Down, k.NewHold, k.Delete},
		{k.Help, k.Quit},
	}
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Cancel}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
