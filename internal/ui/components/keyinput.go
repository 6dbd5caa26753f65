package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// KeyInput is a masked single-line input for API keys. The key is never
// echoed to the terminal.
type KeyInput struct {
	Model textinput.Model
}

// NewKeyInput creates a focused, masked input.
func NewKeyInput(placeholder string) KeyInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Focus()
	return KeyInput{Model: ti}
}

// Init returns the initial command.
func (k KeyInput) Init() tea.Cmd {
	return k.Model.Focus()
}

// Update handles messages.
func (k KeyInput) Update(msg tea.Msg) (KeyInput, tea.Cmd) {
	var cmd tea.Cmd
	k.Model, cmd = k.Model.Update(msg)
	return k, cmd
}

// View renders the input.
func (k KeyInput) View() string {
	return k.Model.View()
}

// Value returns what was typed.
func (k KeyInput) Value() string {
	return k.Model.Value()
}

// Reset clears the input.
func (k *KeyInput) Reset() {
	k.Model.SetValue("")
}
