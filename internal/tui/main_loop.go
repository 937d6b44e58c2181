// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/app"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/service"
	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type mainPage int

const (
	mainPageList mainPage = iota
	mainPageCreate
)

// mainLoopModel owns the signed-in part of the UI: the credential list and
// the create page.
type mainLoopModel struct {
	ctx                 context.Context
	services            *service.ClientServices
	clipboard           clipboardAccess
	clipboardClearDelay time.Duration
	logger              *logger.Logger

	page   mainPage
	list   listModel
	create createModel

	status string
	errMsg string

	logout bool
}

func newMainLoopModel(ctx context.Context, services *service.ClientServices, clipboardClearDelay time.Duration, logger *logger.Logger) mainLoopModel {
	return mainLoopModel{
		ctx:                 ctx,
		services:            services,
		clipboard:           systemClipboard,
		clipboardClearDelay: clipboardClearDelay,
		logger:              logger,
		list:                newListModel(),
		create:              newCreateModel(),
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return tea.Batch(m.list.spinner.Tick, m.cmdLoadList())
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if err := resultErr(msg); errors.Is(err, service.ErrUserNotAuthenticated) {
		return m.sessionEnded(err)
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.list.spinner, cmd = m.list.spinner.Update(msg)
		return m, cmd

	case listLoadedMsg:
		m.list.loading = false
		if msg.err != nil {
			m.errMsg = service.UserMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.list.setItems(msg.list)
		return m, nil

	case revealedMsg:
		return m.handleRevealed(msg)

	case clipboardExpiredMsg:
		cleared, err := clearSecret(m.clipboard, msg.value)
		if err != nil {
			m.logger.Warn().Err(err).Msg("clearing clipboard failed")
			return m, nil
		}
		if cleared {
			m.status = app.MsgClipboardCleared
		}
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.errMsg = service.UserMessage(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf(app.MsgCredentialDeleted, msg.serviceName)
		m.errMsg = ""
		m.list.loading = true
		return m, m.cmdLoadList()

	case savedMsg:
		m.create.saving = false
		if msg.err != nil {
			m.create.errMsg = service.UserMessage(msg.err)
			return m, nil
		}
		m.create = newCreateModel()
		m.page = mainPageList
		m.status = fmt.Sprintf(app.MsgCredentialsSaved, msg.credential.ServiceName)
		m.errMsg = ""
		m.list.loading = true
		return m, m.cmdLoadList()

	case generatedMsg:
		m.create.generating = false
		if msg.err != nil {
			m.create.errMsg = service.UserMessage(msg.err)
			return m, nil
		}
		m.create.errMsg = ""
		m.create.inputs[createFieldPassword].SetValue(msg.password)
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.page == mainPageCreate {
			return m.updateCreate(msg)
		}
		return m, nil
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.page == mainPageCreate {
		return m.updateCreate(msg)
	}
	return m.updateList(keyMsg)
}

func (m mainLoopModel) updateList(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.confirmDelete {
		switch {
		case key.Matches(keyMsg, keys.yes):
			m.list.confirmDelete = false
			item, ok := m.list.current()
			if !ok {
				return m, nil
			}
			return m, m.cmdDelete(item.ServiceName)
		case key.Matches(keyMsg, keys.no):
			m.list.confirmDelete = false
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.up):
		m.list.moveUp()
	case key.Matches(keyMsg, keys.down):
		m.list.moveDown()
	case key.Matches(keyMsg, keys.reveal):
		item, ok := m.list.current()
		if !ok {
			return m, nil
		}
		if m.list.isRevealed(item.ServiceName) {
			m.list.hide(item.ServiceName)
			return m, nil
		}
		return m, m.cmdReveal(item, false)
	case key.Matches(keyMsg, keys.copy):
		item, ok := m.list.current()
		if !ok {
			return m, nil
		}
		return m, m.cmdReveal(item, true)
	case key.Matches(keyMsg, keys.refresh):
		if m.list.loading {
			return m, nil
		}
		m.list.loading = true
		m.status = ""
		m.errMsg = ""
		return m, m.cmdLoadList()
	case key.Matches(keyMsg, keys.delete):
		if _, ok := m.list.current(); ok {
			m.list.confirmDelete = true
		}
	case key.Matches(keyMsg, keys.newItem):
		m.page = mainPageCreate
		m.status = ""
		m.errMsg = ""
		return m, m.create.focusCmd()
	case key.Matches(keyMsg, keys.logout):
		m.logout = true
		m.list.hideAll()
		m.status = app.MsgSignedOut
		return m, tea.Quit
	}

	return m, nil
}

// sessionEnded leaves the main loop as a sign out so the user is sent back
// to the auth flow.
func (m mainLoopModel) sessionEnded(err error) (tea.Model, tea.Cmd) {
	m.logger.Warn().Err(err).Msg("session ended")
	m.logout = true
	m.list.hideAll()
	m.status = ""
	m.errMsg = service.UserMessage(err)
	return m, tea.Quit
}

func resultErr(msg tea.Msg) error {
	switch msg := msg.(type) {
	case listLoadedMsg:
		return msg.err
	case revealedMsg:
		return msg.err
	case deletedMsg:
		return msg.err
	case savedMsg:
		return msg.err
	case generatedMsg:
		return msg.err
	}
	return nil
}

func (m mainLoopModel) handleRevealed(msg revealedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errMsg = service.UserMessage(msg.err)
		return m, nil
	}
	m.errMsg = ""

	if !msg.copy {
		m.list.show(msg.serviceName, msg.plaintext)
		return m, nil
	}

	cmd, err := copySecret(m.clipboard, msg.plaintext, m.clipboardClearDelay)
	if err != nil {
		m.logger.Err(err).Msg("copying to clipboard failed")
		m.errMsg = app.MsgUnexpected
		return m, nil
	}
	m.status = app.MsgPasswordCopied
	return m, cmd
}

func (m mainLoopModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.create, cmd = m.create.updateInput(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.create = newCreateModel()
		m.page = mainPageList
		return m, nil
	case key.Matches(keyMsg, keys.generate):
		if m.create.generating {
			return m, nil
		}
		m.create.generating = true
		m.create.errMsg = ""
		return m, m.cmdGenerate(m.create.options())
	case key.Matches(keyMsg, keys.enter):
		if m.create.saving {
			return m, nil
		}
		m.create.saving = true
		m.create.errMsg = ""
		return m, m.cmdSave(m.create.input())
	}

	var cmd tea.Cmd
	m.create, cmd = m.create.update(keyMsg)
	return m, cmd
}

func (m mainLoopModel) View() string {
	if m.page == mainPageCreate {
		return m.create.View()
	}
	return m.list.View(m.status, m.errMsg)
}

func (m mainLoopModel) cmdLoadList() tea.Cmd {
	ctx := m.ctx
	credentials := m.services.CredentialService

	return func() tea.Msg {
		list, err := credentials.List(ctx)
		return listLoadedMsg{list: list, err: err}
	}
}

func (m mainLoopModel) cmdReveal(item models.Credential, toClipboard bool) tea.Cmd {
	ctx := m.ctx
	credentials := m.services.CredentialService

	return func() tea.Msg {
		plaintext, err := credentials.Reveal(ctx, item)
		return revealedMsg{serviceName: item.ServiceName, plaintext: plaintext, copy: toClipboard, err: err}
	}
}

func (m mainLoopModel) cmdDelete(serviceName string) tea.Cmd {
	ctx := m.ctx
	credentials := m.services.CredentialService

	return func() tea.Msg {
		return deletedMsg{serviceName: serviceName, err: credentials.Delete(ctx, serviceName)}
	}
}

func (m mainLoopModel) cmdSave(input models.CredentialInput) tea.Cmd {
	ctx := m.ctx
	credentials := m.services.CredentialService

	return func() tea.Msg {
		credential, err := credentials.Save(ctx, input)
		return savedMsg{credential: credential, err: err}
	}
}

func (m mainLoopModel) cmdGenerate(opts models.GeneratorOptions) tea.Cmd {
	ctx := m.ctx
	generator := m.services.GeneratorService

	return func() tea.Msg {
		password, err := generator.Generate(ctx, opts)
		return generatedMsg{password: password, err: err}
	}
}
