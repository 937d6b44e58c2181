// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// pilvi-pass service layer and terminal UI.
//
// All Msg* constants are short human-readable status lines shown to the user.
// Error details never reach the screen; they are written to the log file and
// the user sees one of these messages instead.
package app

const (
	// MsgUserNotAuthenticated is shown when an operation needs a signed-in
	// user and nobody is signed in or the session token has expired.
	MsgUserNotAuthenticated = "Please sign in first."

	// MsgIdentityChanged is shown when the signed-in account changed while an
	// operation was in flight and its result was discarded.
	MsgIdentityChanged = "Your session changed. Please try again."

	// MsgFillAllFields is shown when the credential form is incomplete.
	MsgFillAllFields = "Please fill in all fields and generate a password."

	// MsgInvalidServiceName is shown when the service name cannot be used as
	// a record key.
	MsgInvalidServiceName = "Service name must not contain '/' or leading/trailing spaces."

	// MsgFillEmailPassword is shown when the sign-in form is incomplete.
	MsgFillEmailPassword = "Please enter email and password."

	// MsgInvalidGeneratorLength is shown when the requested password length
	// is out of range.
	MsgInvalidGeneratorLength = "Password length must be between 8 and 20."

	// MsgChooseCharacterClass is shown when every generator option is off.
	MsgChooseCharacterClass = "Choose at least one option to generate password."

	// MsgInvalidInput is a generic validation message.
	MsgInvalidInput = "Invalid input."

	MsgEncryptionFailed = "Could not encrypt the password."
	MsgDecryptionFailed = "Could not decrypt the password."

	// MsgStoreFailed is shown when the document store rejected a request.
	MsgStoreFailed = "Could not access your credentials."

	// MsgNetwork is shown when the backend cannot be reached.
	MsgNetwork = "Network unavailable. Check your connection and try again."

	// MsgGeneratorFailed is shown when the password generator failed or its
	// circuit breaker is open.
	MsgGeneratorFailed = "Password generator is unavailable. Try again later."

	MsgCredentialNotFound = "Credential not found."

	MsgEmailExists             = "This email is already registered."
	MsgInvalidLoginCredentials = "Invalid email or password."
	MsgWeakPassword            = "Password should be at least 6 characters."
	MsgInvalidEmail            = "Invalid email address."
	MsgUserDisabled            = "This account has been disabled."

	// MsgUnexpected is the fallback for errors without a dedicated message.
	MsgUnexpected = "Something went wrong. Please try again."
)

// Status lines for successful operations.
const (
	MsgCredentialsSaved   = "Credentials for %s saved!"
	MsgCredentialDeleted  = "Credentials for %s deleted."
	MsgPasswordCopied     = "Password copied to clipboard."
	MsgClipboardCleared   = "Clipboard cleared."
	MsgOfflineCredentials = "Offline: showing cached credentials."
	MsgSignedOut          = "Signed out."
)
