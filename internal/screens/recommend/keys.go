package recommend

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Next     key.Binding
	Generate key.Binding
	Accept   key.Binding
	Retry    key.Binding
	Progress key.Binding
	Back     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "Next")),
		Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "Generate")),
		Accept:   key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "Accept")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Retry")),
		Progress: key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "Progress")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
	}
}
