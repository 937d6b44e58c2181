package service

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotAuthenticated = errors.New("user not authenticated")
	// ErrSessionExpired means the ID token of the signed-in user has expired.
	ErrSessionExpired  = fmt.Errorf("%w: session expired", ErrUserNotAuthenticated)
	ErrIdentityChanged = errors.New("authenticated identity changed during operation")

	ErrValidation = errors.New("validation failed")

	ErrEncryptionFailed = errors.New("failed to encrypt credential")
	ErrDecryptionFailed = errors.New("failed to decrypt credential")

	ErrStore              = errors.New("credential store error")
	ErrNetwork            = errors.New("network unavailable")
	ErrCredentialNotFound = errors.New("credential not found")

	ErrGeneratorFailed = errors.New("password generation failed")
)

// Authentication errors reported by the identity provider.
var (
	ErrEmailExists             = errors.New("email already registered")
	ErrInvalidLoginCredentials = errors.New("invalid email or password")
	ErrWeakPassword            = errors.New("password too weak")
	ErrInvalidEmail            = errors.New("invalid email")
	ErrUserDisabled            = errors.New("user disabled")
)
