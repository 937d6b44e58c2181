package store

import (
	"database/sql"

	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/migrations"
	sq "github.com/Masterminds/squirrel"
)

// DB wraps the cache connection together with the settings that differ
// between drivers.
type DB struct {
	*sql.DB
	// dialect is the goose dialect used for migrations.
	dialect            string
	placeholder        sq.PlaceholderFormat
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.placeholder)
}
