package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Filter    key.Binding
	Sort      key.Binding
	Upvote    key.Binding
	Downvote  key.Binding
	Resolve   key.Binding
	Detail    key.Binding
	Back      key.Binding
	Copy      key.Binding
	Search    key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Upvote:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "upvote")),
	Downvote:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "downvote")),
	Resolve:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resolve")),
	Detail:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
}
