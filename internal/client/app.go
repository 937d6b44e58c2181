package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/pilvi-pass/internal/config"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/service"
	"github.com/MKhiriev/pilvi-pass/internal/tui"
)

type App struct {
	services *service.ClientServices
	ui       UI
	workers  config.ClientWorkers
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, workers config.ClientWorkers, logger *logger.Logger) (*App, error) {
	if services == nil {
		return nil, errors.New("client: services are required")
	}
	if ui == nil {
		return nil, errors.New("client: ui is required")
	}
	return &App{services: services, ui: ui, workers: workers, logger: logger}, nil
}

// Run loops over auth flow → refresh job → main loop until the user quits.
// Signing out ends the session, stops the refresh job and returns to the
// auth flow.
func (a *App) Run() error {
	return a.run(context.Background())
}

func (a *App) run(ctx context.Context) error {
	for {
		if err := a.ui.AuthFlow(ctx); err != nil {
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			return fmt.Errorf("auth flow: %w", err)
		}

		a.services.RefreshJob.Start(ctx, a.workers.RefreshInterval)
		a.logger.Info().Dur("interval", a.workers.RefreshInterval).Msg("cache refresh started")

		logout, err := a.ui.MainLoop(ctx)
		a.services.AuthService.SignOut(ctx)
		if err != nil {
			return fmt.Errorf("main loop: %w", err)
		}
		if !logout {
			return nil
		}
	}
}
