package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next         key.Binding
	PrevCategory key.Binding
	NextCategory key.Binding
	Add          key.Binding
	Import       key.Binding
	Export       key.Binding
	Sync         key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding

	Submit      key.Binding
	Cancel      key.Binding
	SwitchField key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:         key.NewBinding(key.WithKeys("n", " "), key.WithHelp("n", "new quote")),
		PrevCategory: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "category")),
		NextCategory: key.NewBinding(key.WithKeys("right", "l")),
		Add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Import:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Export:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Sync:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		ForceQuit:    key.NewBinding(key.WithKeys("ctrl+c")),

		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		SwitchField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch field")),
	}
}

func (k keyMap) browseHelp() []key.Binding {
	return []key.Binding{k.Next, k.PrevCategory, k.Add, k.Export, k.Import, k.Sync, k.Quit}
}

func (k keyMap) formHelp(withSwitch bool) []key.Binding {
	if withSwitch {
		return []key.Binding{k.SwitchField, k.Submit, k.Cancel}
	}

	return []key.Binding{k.Submit, k.Cancel}
}
