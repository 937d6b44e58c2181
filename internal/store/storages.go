package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/pilvi-pass/internal/config"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/jonboulle/clockwork"
)

// ClientStorages groups the client-side repositories into a single value
// that can be passed around the service layer.
type ClientStorages struct {
	// CredentialRepository caches the encrypted credentials of the signed-in
	// user.
	CredentialRepository LocalCredentialRepository

	db *DB
}

// NewClientStorages initialises the client storage layer. It performs the
// following steps:
//  1. Opens the cache database selected by cfg.DB.Driver (SQLite creates the
//     database file if it does not yet exist).
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires a [LocalCredentialRepository] to the connection.
//
// Returns an error if the driver is unsupported, the connection cannot be
// established or migration fails.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, clock clockwork.Clock, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	var (
		db  *DB
		err error
	)
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg.DB, logger)
	case config.DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg.DB, logger)
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.DB.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s connection error: %w", cfg.DB.Driver, err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		CredentialRepository: NewLocalCredentialRepository(db, clock, logger),
		db:                   db,
	}, nil
}

// Close releases the cache connection.
func (s *ClientStorages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
