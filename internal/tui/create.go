package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	createFieldService = iota
	createFieldUsername
	createFieldPassword
	createFieldSpecial
	createFieldNumbers
	createFieldLower
	createFieldUpper
	createFieldLength
	createFieldCount
)

// createModel is the new-credentials form with the password generator
// controls.
type createModel struct {
	inputs       []textinput.Model
	focus        int
	showPassword bool
	generator    models.GeneratorOptions

	saving     bool
	generating bool
	errMsg     string
}

func newCreateModel() createModel {
	inputs := make([]textinput.Model, createFieldPassword+1)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].CharLimit = 256
	}
	inputs[createFieldService].Placeholder = "service name"
	inputs[createFieldUsername].Placeholder = "username"
	inputs[createFieldPassword].Placeholder = "password"
	inputs[createFieldPassword].EchoMode = textinput.EchoPassword
	inputs[createFieldPassword].EchoCharacter = '*'
	inputs[createFieldService].Focus()

	return createModel{
		inputs:    inputs,
		generator: models.DefaultGeneratorOptions(),
	}
}

func (m createModel) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (m createModel) input() models.CredentialInput {
	return models.CredentialInput{
		ServiceName: strings.TrimSpace(m.inputs[createFieldService].Value()),
		Username:    m.inputs[createFieldUsername].Value(),
		Password:    m.inputs[createFieldPassword].Value(),
	}
}

func (m createModel) options() models.GeneratorOptions {
	return m.generator
}

func (m createModel) update(keyMsg tea.KeyMsg) (createModel, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.tab):
		m.setFocus((m.focus + 1) % createFieldCount)
		return m, nil
	case key.Matches(keyMsg, keys.backtab):
		m.setFocus((m.focus - 1 + createFieldCount) % createFieldCount)
		return m, nil
	case key.Matches(keyMsg, keys.showPass):
		m.showPassword = !m.showPassword
		if m.showPassword {
			m.inputs[createFieldPassword].EchoMode = textinput.EchoNormal
		} else {
			m.inputs[createFieldPassword].EchoMode = textinput.EchoPassword
		}
		return m, nil
	}

	if m.focus <= createFieldPassword {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(keyMsg)
		return m, cmd
	}

	switch m.focus {
	case createFieldLength:
		switch {
		case key.Matches(keyMsg, keys.left):
			m.generator.Length = max(models.MinGeneratedPasswordLength, m.generator.Length-1)
		case key.Matches(keyMsg, keys.right):
			m.generator.Length = min(models.MaxGeneratedPasswordLength, m.generator.Length+1)
		}
	default:
		if key.Matches(keyMsg, keys.toggle) {
			m.toggleFocused()
		}
	}

	return m, nil
}

// updateInput forwards non-key messages, such as cursor blinks, to the
// focused text input.
func (m createModel) updateInput(msg tea.Msg) (createModel, tea.Cmd) {
	if m.focus > createFieldPassword {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *createModel) setFocus(focus int) {
	if m.focus <= createFieldPassword {
		m.inputs[m.focus].Blur()
	}
	m.focus = focus
	if m.focus <= createFieldPassword {
		m.inputs[m.focus].Focus()
	}
}

func (m *createModel) toggleFocused() {
	switch m.focus {
	case createFieldSpecial:
		m.generator.UseSpecial = !m.generator.UseSpecial
	case createFieldNumbers:
		m.generator.UseNumbers = !m.generator.UseNumbers
	case createFieldLower:
		m.generator.UseLower = !m.generator.UseLower
	case createFieldUpper:
		m.generator.UseUpper = !m.generator.UseUpper
	}
}

func (m createModel) View() string {
	var b strings.Builder

	b.WriteString("Service  │ [" + m.inputs[createFieldService].View() + "]\n")
	b.WriteString("Username │ [" + m.inputs[createFieldUsername].View() + "]\n")
	b.WriteString("Password │ [" + m.inputs[createFieldPassword].View() + "]\n")
	b.WriteString("\nGenerator\n")

	toggles := []struct {
		field int
		label string
		on    bool
	}{
		{createFieldSpecial, "special characters", m.generator.UseSpecial},
		{createFieldNumbers, "numbers", m.generator.UseNumbers},
		{createFieldLower, "lowercase", m.generator.UseLower},
		{createFieldUpper, "uppercase", m.generator.UseUpper},
	}
	for _, t := range toggles {
		b.WriteString(m.cursor(t.field))
		b.WriteString(checkbox(t.on))
		b.WriteString(" ")
		b.WriteString(t.label)
		b.WriteString("\n")
	}
	b.WriteString(m.cursor(createFieldLength))
	b.WriteString(fmt.Sprintf("length: ◀ %d ▶ (%d-%d)\n",
		m.generator.Length, models.MinGeneratedPasswordLength, models.MaxGeneratedPasswordLength))

	switch {
	case m.saving:
		b.WriteString("\n[Saving...]\n")
	case m.generating:
		b.WriteString("\n[Generating...]\n")
	default:
		b.WriteString("\n[Save]\n")
	}

	renderStatus(&b, "", m.errMsg)

	return renderPage("NEW CREDENTIALS", strings.TrimRight(b.String(), "\n"),
		"tab: next field │ space: toggle │ ←/→: length │ ctrl+g: generate │ ctrl+r: show/hide │ enter: save │ esc: back")
}

func (m createModel) cursor(field int) string {
	if m.focus == field {
		return cursorStyle.Render("> ")
	}
	return "  "
}
