// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix:  prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:        direct environment variable name for scalar fields.
//   - envDefault: value used when the variable is unset.
type StructuredConfig struct {
	// App holds project-level settings of the hosted backend and local
	// diagnostics.
	App App `envPrefix:"APP_"`

	// Adapter holds base URLs and timeouts of the remote collaborators.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local credential cache settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds background job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds project-level settings.
type App struct {
	// APIKey is the public web API key of the hosted backend project. It is
	// sent as the "key" query parameter to the identity provider.
	// Env: APP_API_KEY
	APIKey string `env:"API_KEY"`

	// ProjectID is the hosted backend project whose document database stores
	// the credentials.
	// Env: APP_PROJECT_ID
	ProjectID string `env:"PROJECT_ID"`

	// LogFile is the path of the client log file. Empty means a "logs" file
	// next to the executable.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// ClipboardClearDelay is how long a copied password stays in the system
	// clipboard. Zero keeps it until overwritten.
	// Env: APP_CLIPBOARD_CLEAR_DELAY
	ClipboardClearDelay time.Duration `env:"CLIPBOARD_CLEAR_DELAY" envDefault:"30s"`
}

// Adapter holds settings of the outbound HTTP collaborators.
type Adapter struct {
	// IdentityAddress is the base URL of the identity provider REST API.
	// Env: ADAPTER_IDENTITY_ADDRESS
	IdentityAddress string `env:"IDENTITY_ADDRESS" envDefault:"https://identitytoolkit.googleapis.com/v1"`

	// TokenAddress is the base URL of the token service that exchanges a
	// refresh token for a new ID token.
	// Env: ADAPTER_TOKEN_ADDRESS
	TokenAddress string `env:"TOKEN_ADDRESS" envDefault:"https://securetoken.googleapis.com/v1"`

	// DocumentsAddress is the base URL of the document database REST API.
	// Env: ADAPTER_DOCUMENTS_ADDRESS
	DocumentsAddress string `env:"DOCUMENTS_ADDRESS" envDefault:"https://firestore.googleapis.com/v1"`

	// GeneratorAddress is the base URL of the password generation service.
	// Env: ADAPTER_GENERATOR_ADDRESS
	GeneratorAddress string `env:"GENERATOR_ADDRESS" envDefault:"https://passwordwolf.com"`

	// RequestTimeout bounds a single outbound request (e.g. "15s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// ReadRetryAttempts is the number of attempts for idempotent reads.
	// Writes are never retried.
	// Env: ADAPTER_READ_RETRY_ATTEMPTS
	ReadRetryAttempts int `env:"READ_RETRY_ATTEMPTS" envDefault:"3"`

	// ReadRetryBackoff is the initial backoff between read attempts; it
	// doubles after every attempt.
	// Env: ADAPTER_READ_RETRY_BACKOFF
	ReadRetryBackoff time.Duration `env:"READ_RETRY_BACKOFF" envDefault:"200ms"`
}

// Storage groups the local cache settings.
type Storage struct {
	// DB holds the cache database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the cache database.
type DB struct {
	// Driver is the database/sql driver name: "sqlite3" or "pgx".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER" envDefault:"sqlite3"`

	// DSN is the data source name: a file path for sqlite3 or a PostgreSQL
	// connection string for pgx.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN" envDefault:"pilvi-pass.db"`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// RefreshInterval is how often the local cache is refreshed from the
	// document store while a user is signed in.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"5m"`
}

// GetStructuredConfig loads and merges the configuration from environment
// variables, command-line flags (os.Args) and the optional JSON file.
func GetStructuredConfig() (*StructuredConfig, error) {
	return getStructuredConfig(os.Args[1:])
}

func getStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
