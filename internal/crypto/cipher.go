// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/pilvi-pass/models"
)

const (
	// KeySize is the length of a derived key in bytes (AES-256).
	KeySize = sha256.Size

	// IVSize is the length of the per-record initialisation vector.
	IVSize = aes.BlockSize

	// RecordSeparator joins the ciphertext and IV halves of a record.
	RecordSeparator = ":"

	// ivReadAttempts bounds reads from the random source; a transient
	// failure is retried once.
	ivReadAttempts = 2
)

// aesCBCCipher is the private implementation of [CredentialCipher].
type aesCBCCipher struct {
	// random is the source of IVs. crypto/rand.Reader outside of tests.
	random io.Reader
}

// Option configures the cipher returned by [NewCredentialCipher].
type Option func(*aesCBCCipher)

// WithRandom replaces the IV source. Intended for tests that need
// deterministic records or a failing random source.
func WithRandom(r io.Reader) Option {
	return func(c *aesCBCCipher) {
		c.random = r
	}
}

// NewCredentialCipher constructs a [CredentialCipher] that reads IVs from
// crypto/rand unless overridden by [WithRandom].
func NewCredentialCipher(opts ...Option) CredentialCipher {
	c := &aesCBCCipher{random: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeriveKey returns SHA-256(keyMaterial). Empty key material is accepted and
// hashes to the fixed empty-input digest.
func DeriveKey(keyMaterial []byte) []byte {
	sum := sha256.Sum256(keyMaterial)
	return sum[:]
}

// DeriveKey implements [CredentialCipher].
func (c *aesCBCCipher) DeriveKey(keyMaterial []byte) []byte {
	return DeriveKey(keyMaterial)
}

// Encrypt implements [CredentialCipher]. The padded plaintext buffer is
// wiped before returning.
func (c *aesCBCCipher) Encrypt(plaintext string, key []byte) (models.EncryptedRecord, error) {
	if len(key) != KeySize {
		return "", fmt.Errorf("%w: invalid key length %d", ErrEncoding, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: create cipher: %v", ErrEncoding, err)
	}

	iv, err := c.newIV()
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	defer clear(padded)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return models.EncryptedRecord(hex.EncodeToString(ciphertext) + RecordSeparator + hex.EncodeToString(iv)), nil
}

// Decrypt implements [CredentialCipher].
func (c *aesCBCCipher) Decrypt(record models.EncryptedRecord, key []byte) (string, error) {
	ciphertext, iv, err := ParseRecord(record)
	if err != nil {
		return "", err
	}

	if len(key) != KeySize {
		return "", fmt.Errorf("%w: invalid key length %d", ErrDecryption, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: create cipher: %v", ErrDecryption, err)
	}

	padded := make([]byte, len(ciphertext))
	defer clear(padded)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plain, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: plaintext is not valid utf-8", ErrDecryption)
	}

	return string(plain), nil
}

// ParseRecord splits record on the first separator and decodes both hex
// halves. The IV must be exactly [IVSize] bytes and the ciphertext a
// non-empty multiple of the AES block size. All failures wrap
// [ErrDecryption].
func ParseRecord(record models.EncryptedRecord) (ciphertext, iv []byte, err error) {
	ctHex, ivHex, found := strings.Cut(string(record), RecordSeparator)
	if !found {
		return nil, nil, fmt.Errorf("%w: missing separator", ErrDecryption)
	}

	ciphertext, err = hex.DecodeString(ctHex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decode ciphertext: %v", ErrDecryption, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of the block size", ErrDecryption, len(ciphertext))
	}

	iv, err = hex.DecodeString(ivHex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decode iv: %v", ErrDecryption, err)
	}
	if len(iv) != IVSize {
		return nil, nil, fmt.Errorf("%w: iv length %d", ErrDecryption, len(iv))
	}

	return ciphertext, iv, nil
}

func (c *aesCBCCipher) newIV() ([]byte, error) {
	iv := make([]byte, IVSize)

	var err error
	for range ivReadAttempts {
		if _, err = io.ReadFull(c.random, iv); err == nil {
			return iv, nil
		}
	}

	return nil, fmt.Errorf("%w: generate iv: %v", ErrEncoding, err)
}
