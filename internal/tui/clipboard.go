package tui

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

type clipboardAccess struct {
	write func(string) error
	read  func() (string, error)
}

var systemClipboard = clipboardAccess{
	write: clipboard.WriteAll,
	read:  clipboard.ReadAll,
}

// copySecret puts value on the clipboard and, when delay is positive,
// schedules its removal.
func copySecret(c clipboardAccess, value string, delay time.Duration) (tea.Cmd, error) {
	if err := c.write(value); err != nil {
		return nil, err
	}
	if delay <= 0 {
		return nil, nil
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return clipboardExpiredMsg{value: value}
	}), nil
}

// clearSecret empties the clipboard if it still holds value. Anything the
// user copied in the meantime is left alone.
func clearSecret(c clipboardAccess, value string) (bool, error) {
	current, err := c.read()
	if err != nil {
		return false, err
	}
	if current != value {
		return false, nil
	}
	return true, c.write("")
}
