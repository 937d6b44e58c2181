package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the JSON file layout.
type StructuredJSONConfig struct {
	App struct {
		APIKey    string `json:"api_key"`
		ProjectID string `json:"project_id"`
		LogFile   string `json:"log_file"`

		ClipboardClearDelay Duration `json:"clipboard_clear_delay"`
	} `json:"app,omitempty"`

	Adapter struct {
		IdentityAddress   string   `json:"identity_address"`
		TokenAddress      string   `json:"token_address"`
		DocumentsAddress  string   `json:"documents_address"`
		GeneratorAddress  string   `json:"generator_address"`
		RequestTimeout    Duration `json:"request_timeout"`
		ReadRetryAttempts int      `json:"read_retry_attempts"`
		ReadRetryBackoff  Duration `json:"read_retry_backoff"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Workers struct {
		RefreshInterval Duration `json:"refresh_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			APIKey:    jsonCfg.App.APIKey,
			ProjectID: jsonCfg.App.ProjectID,
			LogFile:   jsonCfg.App.LogFile,

			ClipboardClearDelay: time.Duration(jsonCfg.App.ClipboardClearDelay),
		},
		Adapter: Adapter{
			IdentityAddress:   jsonCfg.Adapter.IdentityAddress,
			TokenAddress:      jsonCfg.Adapter.TokenAddress,
			DocumentsAddress:  jsonCfg.Adapter.DocumentsAddress,
			GeneratorAddress:  jsonCfg.Adapter.GeneratorAddress,
			RequestTimeout:    time.Duration(jsonCfg.Adapter.RequestTimeout),
			ReadRetryAttempts: jsonCfg.Adapter.ReadRetryAttempts,
			ReadRetryBackoff:  time.Duration(jsonCfg.Adapter.ReadRetryBackoff),
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Workers: Workers{
			RefreshInterval: time.Duration(jsonCfg.Workers.RefreshInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
