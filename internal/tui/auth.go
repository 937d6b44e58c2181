// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/pilvi-pass/internal/app"
	"github.com/MKhiriev/pilvi-pass/internal/service"
	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type authMode int

const (
	authModeSignIn authMode = iota
	authModeSignUp
)

func (m authMode) title() string {
	if m == authModeSignUp {
		return "SIGN UP"
	}
	return "SIGN IN"
}

// AuthModel is the Bubble Tea model for the sign-in and sign-up screens. It
// renders email and password inputs and dispatches an async request on
// submission. On success an authResultMsg is produced and handled by
// [RootModel] to finish the authentication flow.
type AuthModel struct {
	ctx  context.Context
	auth service.ClientAuthService
	mode authMode

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

// NewAuthModel creates an [AuthModel] with email and password inputs. The
// email field receives focus immediately; the password field uses masked
// echo.
func NewAuthModel(ctx context.Context, auth service.ClientAuthService, mode authMode) *AuthModel {
	emailInput := textinput.New()
	emailInput.Placeholder = "email"
	emailInput.CharLimit = 254
	emailInput.Width = 40
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.CharLimit = 256
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	return &AuthModel{
		ctx:    ctx,
		auth:   auth,
		mode:   mode,
		inputs: []textinput.Model{emailInput, passwordInput},
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation for the active input.
func (m *AuthModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - authResultMsg: clears submitting state; on error, populates errMsg.
//   - esc:           navigates back to the menu.
//   - ctrl+t:        switches between sign-in and sign-up.
//   - tab/shift+tab: moves focus between the inputs.
//   - enter:         dispatches the async request.
//
// All other key events are forwarded to the focused input widget.
func (m *AuthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(authResultMsg); ok {
		m.submitting = false
		m.errMsg = service.UserMessage(result.err)
		m.inputs[1].SetValue("")
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.submitting = false
			m.errMsg = ""
			return m, func() tea.Msg { return NavigateTo{Page: pageMenu} }
		case keyMsg.String() == "ctrl+t":
			if m.mode == authModeSignIn {
				m.mode = authModeSignUp
			} else {
				m.mode = authModeSignIn
			}
			m.errMsg = ""
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.focusNext()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.focusPrev()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.submitting {
				return m, nil
			}

			email := strings.TrimSpace(m.inputs[0].Value())
			pass := m.inputs[1].Value()
			if email == "" || pass == "" {
				m.errMsg = app.MsgFillEmailPassword
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdSubmit(models.SignInForm{Email: email, Password: pass})
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View implements [tea.Model].
func (m *AuthModel) View() string {
	var b strings.Builder
	b.WriteString("Field    │ Value\n")
	b.WriteString("─────────┼────────────────────────────────────────────\n")
	b.WriteString("Email    │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Password │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")

	label := "Sign in"
	if m.mode == authModeSignUp {
		label = "Sign up"
	}
	if m.submitting {
		b.WriteString("\n[" + label + "...]\n")
	} else {
		b.WriteString("\n[" + label + "]\n")
	}

	renderStatus(&b, "", m.errMsg)

	return renderPage(m.mode.title(), strings.TrimRight(b.String(), "\n"),
		"esc: back │ tab: next field │ ctrl+t: sign in/sign up │ enter: submit")
}

func (m *AuthModel) cmdSubmit(form models.SignInForm) tea.Cmd {
	ctx := m.ctx
	auth := m.auth
	mode := m.mode

	return func() tea.Msg {
		var err error
		if mode == authModeSignUp {
			_, err = auth.SignUp(ctx, form)
		} else {
			_, err = auth.SignIn(ctx, form)
		}
		return authResultMsg{email: form.Email, err: err}
	}
}

func (m *AuthModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *AuthModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}
