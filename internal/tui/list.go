package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/pilvi-pass/internal/app"
	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

const (
	serviceColMax  = 24
	usernameColMax = 28
)

type listModel struct {
	items         []models.Credential
	idx           int
	loading       bool
	offline       bool
	confirmDelete bool
	revealed      map[string]string
	spinner       spinner.Model
}

func newListModel() listModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return listModel{spinner: s, loading: true, revealed: map[string]string{}}
}

// setItems replaces the list and hides every revealed password.
func (m *listModel) setItems(list models.CredentialList) {
	m.items = list.Items
	m.offline = list.Offline
	m.revealed = map[string]string{}
	if m.idx >= len(m.items) {
		m.idx = len(m.items) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m listModel) current() (models.Credential, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.Credential{}, false
	}
	return m.items[m.idx], true
}

func (m *listModel) moveUp() {
	if m.idx > 0 {
		m.idx--
	}
}

func (m *listModel) moveDown() {
	if m.idx < len(m.items)-1 {
		m.idx++
	}
}

func (m listModel) isRevealed(serviceName string) bool {
	_, ok := m.revealed[serviceName]
	return ok
}

func (m *listModel) show(serviceName, plaintext string) {
	if m.revealed == nil {
		m.revealed = map[string]string{}
	}
	m.revealed[serviceName] = plaintext
}

func (m *listModel) hide(serviceName string) {
	delete(m.revealed, serviceName)
}

func (m *listModel) hideAll() {
	m.revealed = map[string]string{}
}

func (m listModel) View(status, errMsg string) string {
	var b strings.Builder

	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading...\n")
	case len(m.items) == 0:
		b.WriteString("No credentials yet. Press n to add one.\n")
	default:
		m.renderTable(&b)
	}

	if m.offline {
		b.WriteString("\n")
		b.WriteString(offlineStyle.Render(app.MsgOfflineCredentials))
		b.WriteString("\n")
	}

	if m.confirmDelete {
		if item, ok := m.current(); ok {
			b.WriteString(fmt.Sprintf("\nDelete credentials for %s? (y/n)\n", item.ServiceName))
		}
	}

	renderStatus(&b, status, errMsg)

	title := "CREDENTIALS"
	if m.loading && len(m.items) > 0 {
		title += " " + m.spinner.View()
	}

	return renderPage(title, strings.TrimRight(b.String(), "\n"),
		"↑/↓: navigate │ enter: show/hide │ c: copy │ n: new │ d: delete │ r: refresh │ o: sign out │ q: quit")
}

func (m listModel) renderTable(b *strings.Builder) {
	serviceWidth := lipgloss.Width("Service")
	usernameWidth := lipgloss.Width("Username")
	for _, item := range m.items {
		serviceWidth = max(serviceWidth, lipgloss.Width(fitText(item.ServiceName, serviceColMax)))
		usernameWidth = max(usernameWidth, lipgloss.Width(fitText(item.Username, usernameColMax)))
	}

	b.WriteString(fmt.Sprintf("  %-*s │ %-*s │ %s\n", serviceWidth, "Service", usernameWidth, "Username", "Password"))
	b.WriteString(strings.Repeat("─", serviceWidth+2))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", usernameWidth))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", lipgloss.Width(maskedPassword)))
	b.WriteString("\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.idx {
			cursor = cursorStyle.Render("> ")
		}
		plaintext, revealed := m.revealed[item.ServiceName]
		b.WriteString(fmt.Sprintf("%s%-*s │ %-*s │ %s\n",
			cursor,
			serviceWidth, fitText(item.ServiceName, serviceColMax),
			usernameWidth, fitText(item.Username, usernameColMax),
			maskSecret(plaintext, revealed),
		))
	}
}
