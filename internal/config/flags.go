package config

import (
	"flag"
	"fmt"
	"time"
)

// parseFlags parses the client command-line flags from args.
//
// Flags:
//
//	-api-key hosted backend web API key
//	-project-id hosted backend project id
//	-log-file client log file path
//	-clipboard-clear-delay how long a copied password stays in the clipboard
//	-identity-address identity provider base URL
//	-token-address token service base URL
//	-documents-address document database base URL
//	-generator-address password generator base URL
//	-request-timeout outbound request timeout (e.g. "15s")
//	-read-retry-attempts attempts for idempotent reads
//	-read-retry-backoff initial backoff between read attempts (e.g. "200ms")
//	-db-driver cache database driver (sqlite3 or pgx)
//	-d cache database DSN
//	-refresh-interval cache refresh interval (e.g. "5m")
//	-c/-config json file path with configs
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("pilvi-pass", flag.ContinueOnError)

	var (
		apiKey, projectID, logFile                          string
		identityAddress, documentsAddress, generatorAddress string
		tokenAddress                                        string
		requestTimeout, readRetryBackoff, refreshInterval   time.Duration
		clipboardClearDelay                                 time.Duration
		readRetryAttempts                                   int
		dbDriver, dbDSN                                     string
		jsonConfigPath                                      string
	)

	fs.StringVar(&apiKey, "api-key", "", "Hosted backend web API key")
	fs.StringVar(&projectID, "project-id", "", "Hosted backend project id")
	fs.StringVar(&logFile, "log-file", "", "Client log file path")
	fs.DurationVar(&clipboardClearDelay, "clipboard-clear-delay", 0, "Clipboard clear delay (e.g., 30s)")
	fs.StringVar(&identityAddress, "identity-address", "", "Identity provider base URL")
	fs.StringVar(&tokenAddress, "token-address", "", "Token service base URL")
	fs.StringVar(&documentsAddress, "documents-address", "", "Document database base URL")
	fs.StringVar(&generatorAddress, "generator-address", "", "Password generator base URL")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	fs.IntVar(&readRetryAttempts, "read-retry-attempts", 0, "Attempts for idempotent reads")
	fs.DurationVar(&readRetryBackoff, "read-retry-backoff", 0, "Initial read retry backoff (e.g., 200ms)")
	fs.StringVar(&dbDriver, "db-driver", "", "Cache database driver (sqlite3 or pgx)")
	fs.StringVar(&dbDSN, "d", "", "Cache database DSN")
	fs.DurationVar(&refreshInterval, "refresh-interval", 0, "Cache refresh interval (e.g., 5m)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			APIKey:    apiKey,
			ProjectID: projectID,
			LogFile:   logFile,

			ClipboardClearDelay: clipboardClearDelay,
		},
		Adapter: Adapter{
			IdentityAddress:   identityAddress,
			TokenAddress:      tokenAddress,
			DocumentsAddress:  documentsAddress,
			GeneratorAddress:  generatorAddress,
			RequestTimeout:    requestTimeout,
			ReadRetryAttempts: readRetryAttempts,
			ReadRetryBackoff:  readRetryBackoff,
		},
		Storage: Storage{
			DB: DB{
				Driver: dbDriver,
				DSN:    dbDSN,
			},
		},
		Workers:      Workers{RefreshInterval: refreshInterval},
		JSONFilePath: jsonConfigPath,
	}, nil
}
