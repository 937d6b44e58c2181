// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for the hosted
// collaborators of the pilvi-pass client: the identity provider, the
// per-user document store, and the external password generator.
//
// Every implementation speaks REST through resty. Transport failures are
// mapped to the sentinel values defined in errors.go so that callers can
// use [errors.Is] without knowing the backend (e.g. [ErrEmailExists] for a
// duplicate sign-up, [ErrNotFound] for a missing document).
package adapter

import (
	"context"

	"github.com/MKhiriev/pilvi-pass/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// IdentityProvider authenticates users against the hosted identity service.
type IdentityProvider interface {
	// SignUp creates a new email/password account. Hosted providers sign the
	// new user in immediately, so the returned user carries a valid ID token
	// and UID.
	SignUp(ctx context.Context, form models.SignInForm) (models.User, error)

	// SignIn authenticates an existing account and returns the user with a
	// fresh ID token and UID.
	SignIn(ctx context.Context, form models.SignInForm) (models.User, error)

	// Refresh exchanges the refresh token of user for a new ID token. The
	// returned user keeps the UID and email of user. A revoked or expired
	// refresh token is reported as [ErrUnauthorized].
	Refresh(ctx context.Context, user models.User) (models.User, error)
}

// DocumentStore persists encrypted credentials in the per-user collection
// users/{email}/credentials/{serviceName}. Requests are authorised with the
// user's ID token.
type DocumentStore interface {
	// SetCredential creates or overwrites the document for
	// credential.ServiceName in the user's collection.
	SetCredential(ctx context.Context, user models.User, credential models.Credential) error

	// ListCredentials returns every credential document in the user's
	// collection, following pagination until exhausted. Owner is set to the
	// user's email on every item.
	ListCredentials(ctx context.Context, user models.User) ([]models.Credential, error)

	// GetCredential returns a single credential document. Returns
	// [ErrNotFound] (wrapped) when it does not exist.
	GetCredential(ctx context.Context, user models.User, serviceName string) (models.Credential, error)

	// DeleteCredential removes a credential document. Deleting a missing
	// document is not an error.
	DeleteCredential(ctx context.Context, user models.User, serviceName string) error
}

// PasswordGenerator asks an external service for a random password.
type PasswordGenerator interface {
	// Generate returns one password matching opts. The options are assumed
	// to be validated by the caller.
	Generate(ctx context.Context, opts models.GeneratorOptions) (string, error)
}
