package config

import (
	"fmt"
	"os"
	"time"
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	// APIKey is the hosted backend web API key.
	APIKey string
	// ProjectID is the hosted backend project identifier.
	ProjectID string
	// LogFile is the client log file path.
	LogFile string
	// ClipboardClearDelay is how long a copied password stays in the clipboard.
	ClipboardClearDelay time.Duration
}

// ClientReadRetry controls retries of idempotent reads.
type ClientReadRetry struct {
	Attempts int
	Backoff  time.Duration
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	IdentityAddress  string
	TokenAddress     string
	DocumentsAddress string
	GeneratorAddress string
	RequestTimeout   time.Duration
	ReadRetry        ClientReadRetry
}

// ClientDB contains local cache connection settings.
type ClientDB struct {
	Driver string
	DSN    string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains client background job settings.
type ClientWorkers struct {
	RefreshInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
}

// GetClientConfig builds and validates the client configuration view from
// the merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	return getClientConfig(os.Args[1:])
}

func getClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := getStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			APIKey:    cfg.App.APIKey,
			ProjectID: cfg.App.ProjectID,
			LogFile:   cfg.App.LogFile,

			ClipboardClearDelay: cfg.App.ClipboardClearDelay,
		},
		Adapter: ClientAdapter{
			IdentityAddress:  cfg.Adapter.IdentityAddress,
			TokenAddress:     cfg.Adapter.TokenAddress,
			DocumentsAddress: cfg.Adapter.DocumentsAddress,
			GeneratorAddress: cfg.Adapter.GeneratorAddress,
			RequestTimeout:   cfg.Adapter.RequestTimeout,
			ReadRetry: ClientReadRetry{
				Attempts: cfg.Adapter.ReadRetryAttempts,
				Backoff:  cfg.Adapter.ReadRetryBackoff,
			},
		},
		Storage: ClientStorage{
			DB: ClientDB{
				Driver: cfg.Storage.DB.Driver,
				DSN:    cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{RefreshInterval: cfg.Workers.RefreshInterval},
	}
}
