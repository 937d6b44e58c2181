// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks the merged [StructuredConfig]. Every field is optional at
// this level; requirements are enforced on the client view.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.App.APIKey == "" || cfg.App.ProjectID == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Adapter.IdentityAddress == "" ||
		cfg.Adapter.TokenAddress == "" ||
		cfg.Adapter.DocumentsAddress == "" ||
		cfg.Adapter.GeneratorAddress == "" ||
		cfg.Adapter.RequestTimeout <= 0 ||
		cfg.Adapter.ReadRetry.Attempts < 1 ||
		cfg.Adapter.ReadRetry.Backoff < 0 {
		return ErrInvalidAdapterConfigs
	}

	switch cfg.Storage.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Workers.RefreshInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
