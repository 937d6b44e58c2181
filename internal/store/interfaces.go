// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the local credential cache of the client.
//
// The cache keeps the encrypted records of the signed-in user so that the
// vault can still be listed when the document store is unreachable. It never
// sees plaintext: rows hold exactly the [models.EncryptedRecord] values read
// from or written to the document store.
//
// Two database/sql backends are supported: SQLite (the default, a file next
// to the client) and PostgreSQL through pgx. Queries are built with squirrel
// using the placeholder format of the active driver.
package store

import (
	"context"

	"github.com/MKhiriev/pilvi-pass/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock -exclude_interfaces=ErrorClassificator

// LocalCredentialRepository is the owner-scoped credential cache. Every
// method takes the owner explicitly; rows of other owners are never read or
// modified.
type LocalCredentialRepository interface {
	// Upsert inserts or replaces the row for (credential.Owner,
	// credential.ServiceName).
	Upsert(ctx context.Context, credential models.Credential) error

	// ReplaceAll atomically replaces every cached row of owner with
	// credentials.
	ReplaceAll(ctx context.Context, owner string, credentials []models.Credential) error

	// List returns the cached rows of owner ordered by service name.
	List(ctx context.Context, owner string) ([]models.Credential, error)

	// Get returns one cached row. Returns [ErrCredentialNotFound] when absent.
	Get(ctx context.Context, owner, serviceName string) (models.Credential, error)

	// Delete removes one cached row. Removing a missing row is not an error.
	Delete(ctx context.Context, owner, serviceName string) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
