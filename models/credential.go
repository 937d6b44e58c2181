// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// EncryptedRecord is the persisted form of a protected credential value:
// hex(ciphertext) + ":" + hex(iv). The record is opaque to every storage
// layer; only the client cipher can turn it back into plaintext.
type EncryptedRecord string

// String returns the record in its wire form.
func (r EncryptedRecord) String() string {
	return string(r)
}

// Credential is a stored vault entry owned by a single user.
// The password is never held in plaintext inside this structure.
type Credential struct {
	// Owner identifies the user the record belongs to (the account email in
	// the hosted document store). It is the first half of the record key.
	Owner string `json:"-"`

	// ServiceName is the name of the service the credential is for
	// (e.g. "github"). It is the second half of the record key and doubles
	// as the document ID.
	ServiceName string `json:"serviceName"`

	// Username is the login used for the service. Stored as-is.
	Username string `json:"username"`

	// Password is the encrypted password value.
	Password EncryptedRecord `json:"password"`

	// CreatedAt is the time the credential was saved by the client.
	CreatedAt time.Time `json:"createdAt"`
}

// CredentialInput is the plaintext form submitted by the user when saving a
// credential. It must be discarded as soon as the password is encrypted.
type CredentialInput struct {
	ServiceName string
	Username    string
	Password    string
}

// CredentialList is the result of listing the vault.
type CredentialList struct {
	// Items are the owner's credentials sorted by service name.
	Items []Credential

	// Offline is true when the backend could not be reached and Items were
	// served from the local cache.
	Offline bool
}
