package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	enter    key.Binding
	esc      key.Binding
	tab      key.Binding
	backtab  key.Binding
	quit     key.Binding
	logout   key.Binding
	newItem  key.Binding
	refresh  key.Binding
	reveal   key.Binding
	delete   key.Binding
	copy     key.Binding
	toggle   key.Binding
	generate key.Binding
	showPass key.Binding
	yes      key.Binding
	no       key.Binding
}

var keys = keyMap{
	up:       key.NewBinding(key.WithKeys("up", "k")),
	down:     key.NewBinding(key.WithKeys("down", "j")),
	left:     key.NewBinding(key.WithKeys("left", "h")),
	right:    key.NewBinding(key.WithKeys("right", "l")),
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	tab:      key.NewBinding(key.WithKeys("tab")),
	backtab:  key.NewBinding(key.WithKeys("shift+tab")),
	quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	logout:   key.NewBinding(key.WithKeys("o")),
	newItem:  key.NewBinding(key.WithKeys("n")),
	refresh:  key.NewBinding(key.WithKeys("r")),
	reveal:   key.NewBinding(key.WithKeys(" ", "enter")),
	delete:   key.NewBinding(key.WithKeys("d")),
	copy:     key.NewBinding(key.WithKeys("c")),
	toggle:   key.NewBinding(key.WithKeys(" ")),
	generate: key.NewBinding(key.WithKeys("ctrl+g")),
	showPass: key.NewBinding(key.WithKeys("ctrl+r")),
	yes:      key.NewBinding(key.WithKeys("y")),
	no:       key.NewBinding(key.WithKeys("n", "esc")),
}
