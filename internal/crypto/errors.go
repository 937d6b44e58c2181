package crypto

import "errors"

var (
	// ErrEncoding is returned by Encrypt when the key has the wrong length or
	// the random source fails. It indicates a programming or environment fault.
	ErrEncoding = errors.New("credential encoding failed")

	// ErrDecryption is returned by Decrypt for every failure. Callers must not
	// tell users whether the key or the record format was at fault.
	ErrDecryption = errors.New("failed to decrypt")
)
