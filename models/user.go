// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User represents an authenticated account as returned by the identity
// provider. It lives in client memory only.
type User struct {
	// UID is the stable account identifier assigned by the identity provider.
	// It is the key material for credential encryption and must never be
	// written to disk or sent to the document store.
	UID string `json:"-"`

	// Email is the sign-in address. The document store addresses the user's
	// credential collection by it.
	Email string `json:"email"`

	// IDToken is the bearer token attached to document store requests.
	IDToken string `json:"-"`

	// RefreshToken is returned by the identity provider on sign-in.
	RefreshToken string `json:"-"`

	// ExpiresAt is the expiry of IDToken.
	ExpiresAt time.Time `json:"-"`
}

// Expired reports whether the ID token has expired at the given moment.
// A zero ExpiresAt means the expiry is unknown and the token is treated as
// valid.
func (u User) Expired(now time.Time) bool {
	return !u.ExpiresAt.IsZero() && !now.Before(u.ExpiresAt)
}

// SignInForm carries the email and password typed on the sign-in screen.
type SignInForm struct {
	Email    string
	Password string
}
