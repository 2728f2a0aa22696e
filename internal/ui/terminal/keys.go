package terminal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Reset      key.Binding
	Fullscreen key.Binding
	Sound      key.Binding
	More       key.Binding
	Less       key.Binding
	Quick      key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "start/stop")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "big mode")),
		Sound:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "sound")),
		More:       key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+", "add minute")),
		Less:       key.NewBinding(key.WithKeys("-", "_", "down"), key.WithHelp("-", "remove minute")),
		Quick:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "presets")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Toggle, keys.Reset, keys.More, keys.Less, keys.Quick, keys.Sound, keys.Fullscreen, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{keys.ShortHelp()}
}
