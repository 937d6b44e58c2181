// Package tui implements the terminal user interface of pilvi-pass on top of
// Bubble Tea.
//
// The UI runs in two phases. AuthFlow shows the sign-in / sign-up pages and
// returns once a session has started. MainLoop shows the credential list and
// the create page until the user signs out or quits. Every error is rendered
// through service.UserMessage; details go to the log file only.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/service"
	"github.com/MKhiriev/pilvi-pass/models"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("user quit")

type TUI struct {
	services            *service.ClientServices
	buildInfo           models.AppBuildInfo
	clipboardClearDelay time.Duration
	logger              *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, clipboardClearDelay time.Duration, logger *logger.Logger) (*TUI, error) {
	if services == nil {
		return nil, errors.New("tui: services are required")
	}
	return &TUI{
		services:            services,
		buildInfo:           buildInfo,
		clipboardClearDelay: clipboardClearDelay,
		logger:              logger,
	}, nil
}

// AuthFlow blocks until the user has signed in or up. It returns ErrUserQuit
// when the user leaves the program instead.
func (t *TUI) AuthFlow(ctx context.Context) error {
	pages := map[string]tea.Model{
		pageMenu:   NewMenuModel(),
		pageSignIn: NewAuthModel(ctx, t.services.AuthService, authModeSignIn),
		pageSignUp: NewAuthModel(ctx, t.services.AuthService, authModeSignUp),
	}

	root := NewRootModel(pages, pageMenu, t.buildInfo)
	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser || !result.signedIn {
		return ErrUserQuit
	}

	return nil
}

// MainLoop shows the vault of the signed-in user. logout is true when the
// user asked to sign out rather than quit.
func (t *TUI) MainLoop(ctx context.Context) (logout bool, err error) {
	model := newMainLoopModel(ctx, t.services, t.clipboardClearDelay, t.logger)
	finalModel, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return false, err
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
