package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/pilvi-pass/internal/adapter"
	"github.com/MKhiriev/pilvi-pass/internal/client"
	"github.com/MKhiriev/pilvi-pass/internal/config"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/service"
	"github.com/MKhiriev/pilvi-pass/internal/store"
	"github.com/MKhiriev/pilvi-pass/internal/tui"
	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/jonboulle/clockwork"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewClientLogger("pilvi-pass-client", cfg.App.LogFile)
	clock := clockwork.NewRealClock()
	ctx := context.Background()

	identity, err := adapter.NewHTTPIdentityProvider(cfg.Adapter, cfg.App, clock, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create identity adapter")
	}

	documents, err := adapter.NewHTTPDocumentStore(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create document store adapter")
	}

	generator, err := adapter.NewHTTPPasswordGenerator(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create password generator adapter")
	}

	localStorage, err := store.NewClientStorages(ctx, cfg.Storage, clock, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer localStorage.Close()

	services := service.NewClientServices(service.ClientAdapters{
		Identity:  identity,
		Documents: documents,
		Generator: generator,
	}, localStorage, cfg.Adapter, clock, log)

	ui, err := tui.New(services, buildInfo, cfg.App.ClipboardClearDelay, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, ui, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Error().Err(err).Msg("client run error")
		localStorage.Close()
		os.Exit(1)
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
