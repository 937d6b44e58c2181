// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/pilvi-pass/internal/adapter"
	"github.com/MKhiriev/pilvi-pass/internal/app"
	"github.com/MKhiriev/pilvi-pass/internal/crypto"
	"github.com/MKhiriev/pilvi-pass/internal/store"
	"github.com/MKhiriev/pilvi-pass/internal/utils"
	"github.com/MKhiriev/pilvi-pass/internal/validators"
)

// mapAdapterError translates the adapter's transport error into a service business error.
// The original error stays in the chain for logging. Errors of the session and
// token renewal are already mapped and pass through unchanged.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUserNotAuthenticated) || errors.Is(err, ErrIdentityChanged) || errors.Is(err, ErrNetwork) {
		return err
	}

	var target error
	switch {
	case errors.Is(err, adapter.ErrEmailExists):
		target = ErrEmailExists
	case errors.Is(err, adapter.ErrInvalidLoginCredentials):
		target = ErrInvalidLoginCredentials
	case errors.Is(err, adapter.ErrWeakPassword):
		target = ErrWeakPassword
	case errors.Is(err, adapter.ErrInvalidEmail):
		target = ErrInvalidEmail
	case errors.Is(err, adapter.ErrUserDisabled):
		target = ErrUserDisabled

	case errors.Is(err, adapter.ErrUnauthorized):
		target = ErrUserNotAuthenticated
	case errors.Is(err, adapter.ErrNotFound):
		target = ErrCredentialNotFound

	case errors.Is(err, adapter.ErrGeneratorUnavailable):
		target = ErrGeneratorFailed

	case errors.Is(err, adapter.ErrNetwork),
		errors.Is(err, adapter.ErrServerError),
		errors.Is(err, adapter.ErrTooManyRequests):
		target = ErrNetwork

	default:
		target = ErrStore
	}

	return fmt.Errorf("%w: %w", target, err)
}

// classifyAdapterError tells utils.Retry which read failures are transient.
func classifyAdapterError(err error) utils.RetryAction {
	switch {
	case adapter.IsRateLimited(err):
		return utils.RetryAfter
	case adapter.IsRetryable(err):
		return utils.RetryAgain
	default:
		return utils.RetryStop
	}
}

// UserMessage returns the status line shown to the user for err. It never
// contains error details.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, ErrUserNotAuthenticated):
		return app.MsgUserNotAuthenticated
	case errors.Is(err, ErrIdentityChanged):
		return app.MsgIdentityChanged

	case errors.Is(err, validators.ErrInvalidServiceName):
		return app.MsgInvalidServiceName
	case errors.Is(err, validators.ErrEmptyServiceName),
		errors.Is(err, validators.ErrEmptyUsername),
		errors.Is(err, validators.ErrEmptyPassword):
		return app.MsgFillAllFields
	case errors.Is(err, validators.ErrEmptyEmail):
		return app.MsgFillEmailPassword
	case errors.Is(err, validators.ErrInvalidLength):
		return app.MsgInvalidGeneratorLength
	case errors.Is(err, validators.ErrNoCharacterClass):
		return app.MsgChooseCharacterClass
	case errors.Is(err, ErrValidation):
		return app.MsgInvalidInput

	case errors.Is(err, ErrEncryptionFailed), errors.Is(err, crypto.ErrEncoding):
		return app.MsgEncryptionFailed
	case errors.Is(err, ErrDecryptionFailed), errors.Is(err, crypto.ErrDecryption):
		return app.MsgDecryptionFailed

	case errors.Is(err, ErrEmailExists):
		return app.MsgEmailExists
	case errors.Is(err, ErrInvalidLoginCredentials):
		return app.MsgInvalidLoginCredentials
	case errors.Is(err, ErrWeakPassword):
		return app.MsgWeakPassword
	case errors.Is(err, ErrInvalidEmail):
		return app.MsgInvalidEmail
	case errors.Is(err, ErrUserDisabled):
		return app.MsgUserDisabled

	case errors.Is(err, ErrGeneratorFailed):
		return app.MsgGeneratorFailed
	case errors.Is(err, ErrCredentialNotFound), errors.Is(err, store.ErrCredentialNotFound):
		return app.MsgCredentialNotFound
	case errors.Is(err, ErrNetwork):
		return app.MsgNetwork
	case errors.Is(err, ErrStore):
		return app.MsgStoreFailed
	}

	return app.MsgUnexpected
}
