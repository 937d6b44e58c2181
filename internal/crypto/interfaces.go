// Package crypto implements the client-side credential cipher.
//
// A credential password is encrypted with AES-256 in CBC mode under a key
// derived from the signed-in user's account identifier:
//
//	key    = SHA-256(uid)                       (DeriveKey)
//	record = hex(AES-CBC(PKCS7(p), key, iv)) ":" hex(iv)   (Encrypt)
//	p      = Decrypt(record, key)
//
// Each call to Encrypt draws a fresh 16-byte IV, so equal plaintexts never
// produce equal records. Every user credential shares the same derived key
// and no per-record salt is used: the record format predates any rotation
// scheme and changing it requires a migration of stored records.
package crypto

import "github.com/MKhiriev/pilvi-pass/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/credential_cipher_mock.go -package=mock

// CredentialCipher protects a single short string value.
// Implementations hold no mutable state and are safe for concurrent use.
type CredentialCipher interface {
	// DeriveKey returns the 32-byte SHA-256 digest of keyMaterial.
	// The result must be recomputed on demand and never persisted.
	DeriveKey(keyMaterial []byte) []byte

	// Encrypt pads plaintext with PKCS#7, encrypts it with AES-CBC under key
	// and a fresh random IV, and returns the "hex:hex" record.
	// Fails with ErrEncoding when key is not 32 bytes long or no random IV
	// can be produced.
	Encrypt(plaintext string, key []byte) (models.EncryptedRecord, error)

	// Decrypt reverses Encrypt. Any malformed record, wrong key, broken
	// padding or non UTF-8 result fails with ErrDecryption.
	Decrypt(record models.EncryptedRecord, key []byte) (string, error)
}
