package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextField key.Binding
	PrevField key.Binding
	OptPrev   key.Binding
	OptNext   key.Binding
	Next      key.Binding
	Previous  key.Binding
	Jump      key.Binding
	Submit    key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab/↓", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "prev field")),
		OptPrev:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev option")),
		OptNext:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next option")),
		Next:      key.NewBinding(key.WithKeys("ctrl+n", "pgdown"), key.WithHelp("ctrl+n", "next section")),
		Previous:  key.NewBinding(key.WithKeys("ctrl+p", "pgup"), key.WithHelp("ctrl+p", "previous section")),
		Jump: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9"),
			key.WithHelp("alt+1…9", "go to section")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s", "enter"), key.WithHelp("enter", "submit")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Next, k.Previous, k.Submit, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.OptPrev, k.OptNext},
		{k.Next, k.Previous, k.Jump},
		{k.Submit, k.Quit},
	}
}
