package tui

import (
	"github.com/MKhiriev/pilvi-pass/models"
	tea "github.com/charmbracelet/bubbletea"
)

// NavigateTo switches the RootModel to Page. A non-nil Payload is delivered
// to the new page as its first message.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

type authResultMsg struct {
	email string
	err   error
}

type listLoadedMsg struct {
	list models.CredentialList
	err  error
}

type revealedMsg struct {
	serviceName string
	plaintext   string
	copy        bool
	err         error
}

type savedMsg struct {
	credential models.Credential
	err        error
}

type deletedMsg struct {
	serviceName string
	err         error
}

type generatedMsg struct {
	password string
	err      error
}

// clipboardExpiredMsg fires when a copied password should leave the
// clipboard. value is what was copied; the clipboard is only cleared if it
// still holds it.
type clipboardExpiredMsg struct {
	value string
}
