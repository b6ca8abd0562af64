package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	add     key.Binding
	pause   key.Binding
	library key.Binding
	errLog  key.Binding
	cleanup key.Binding
	convert key.Binding
	refresh key.Binding
	delete  key.Binding
	all     key.Binding
	retry   key.Binding
	clear   key.Binding
	yes     key.Binding
	no      key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add download")),
		pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		library: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "library")),
		errLog:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "errors")),
		cleanup: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cleanup")),
		convert: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "convert")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		all:     key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "all")),
		retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		clear:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear date")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.add, k.pause, k.library},
		{k.errLog, k.cleanup, k.quit},
	}
}
