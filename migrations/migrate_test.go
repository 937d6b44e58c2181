// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_DBError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// no expectations: goose's first query fails
	err = Migrate(db, "sqlite3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error")
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := Migrate(db, "sqlite3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db is nil")
}

func TestMigrate_UnknownDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(db, "oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setting dialect")
}

func TestMigrate_SQLiteCreatesCredentialsTable(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db, "sqlite3"))
	// idempotent
	require.NoError(t, Migrate(db, "sqlite3"))

	_, err = db.Exec(`INSERT INTO credentials (owner, service_name, username, password, created_at, cached_at)
		VALUES ('a@b.c', 'github', 'alice', 'aa:bb', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO credentials (owner, service_name, username, password, created_at, cached_at)
		VALUES ('a@b.c', 'github', 'other', 'cc:dd', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	assert.Error(t, err, "owner and service name form the primary key")
}
