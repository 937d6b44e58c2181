// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedIV is 00 01 02 ... 0f; the expected ciphertexts below were produced
// with `openssl enc -aes-256-cbc` using the same key and IV.
var fixedIV = []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

const fixedIVHex = "000102030405060708090a0b0c0d0e0f"

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// failingReader fails the first `failures` reads, then yields zero bytes.
type failingReader struct {
	failures int
	calls    int
}

func (r *failingReader) Read(p []byte) (int, error) {
	r.calls++
	if r.calls <= r.failures {
		return 0, errors.New("entropy source unavailable")
	}
	clear(p)
	return len(p), nil
}

// ── DeriveKey ───────────────────────────────────────────────────────────────

func TestDeriveKey_FixedVectors(t *testing.T) {
	tests := []struct {
		name     string
		material string
		want     string
	}{
		{name: "user-123", material: "user-123", want: "fcdec6df4d44dbc637c7c5b58efface52a7f8a88535423430255be0bb89bedd8"},
		{name: "uid-42", material: "uid-42", want: "8cd1e4a52ed4c58a62303dadffb71a546a86535e934db41096e9c7e8cd994cb7"},
		{name: "empty material", material: "", want: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}

	c := NewCredentialCipher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.DeriveKey([]byte(tt.material))
			assert.Len(t, got, KeySize)
			assert.Equal(t, tt.want, hex.EncodeToString(got))
		})
	}
}

func TestDeriveKey_DeterministicAndDistinct(t *testing.T) {
	k1 := DeriveKey([]byte("user-123"))
	k2 := DeriveKey([]byte("user-123"))
	k3 := DeriveKey([]byte("user-124"))

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

// ── Encrypt ─────────────────────────────────────────────────────────────────

func TestEncrypt_KnownVectors(t *testing.T) {
	key := DeriveKey([]byte("uid-42"))

	tests := []struct {
		name      string
		plaintext string
		wantCT    string
	}{
		{name: "short password", plaintext: "S3cr3t!pw", wantCT: "d0a988b114d7af2003bcabd67cab22e2"},
		{name: "empty plaintext", plaintext: "", wantCT: "1bf243b4bf412cddbe06001aec0d7634"},
		{name: "exactly one block", plaintext: "0123456789abcdef", wantCT: "c8a824b227d4b3d4b81a84fad60c3448f60e6cdeb3c97be1a211ee2007aad319"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCredentialCipher(WithRandom(bytes.NewReader(fixedIV)))

			got, err := c.Encrypt(tt.plaintext, key)
			require.NoError(t, err)
			assert.Equal(t, models.EncryptedRecord(tt.wantCT+":"+fixedIVHex), got)
		})
	}
}

func TestEncrypt_RecordFormat(t *testing.T) {
	c := NewCredentialCipher()
	key := DeriveKey([]byte("uid-42"))

	for _, plaintext := range []string{"", "a", "0123456789abcdef", strings.Repeat("x", 100)} {
		record, err := c.Encrypt(plaintext, key)
		require.NoError(t, err)

		ctHex, ivHex, found := strings.Cut(record.String(), ":")
		require.True(t, found)
		assert.Len(t, ivHex, 32)
		assert.NotEmpty(t, ctHex)
		assert.Zero(t, len(ctHex)%32, "ciphertext hex must be whole blocks")
		assert.Equal(t, (len(plaintext)/16+1)*32, len(ctHex))
	}
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	c := NewCredentialCipher()
	key := DeriveKey([]byte("uid-42"))

	r1, err := c.Encrypt("S3cr3t!pw", key)
	require.NoError(t, err)
	r2, err := c.Encrypt("S3cr3t!pw", key)
	require.NoError(t, err)

	assert.NotEqual(t, r1, r2)

	_, iv1, _ := strings.Cut(r1.String(), ":")
	_, iv2, _ := strings.Cut(r2.String(), ":")
	assert.NotEqual(t, iv1, iv2)
}

func TestEncrypt_InvalidKeyLength(t *testing.T) {
	c := NewCredentialCipher()

	for _, n := range []int{0, 16, 24, 31, 33} {
		_, err := c.Encrypt("secret", make([]byte, n))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEncoding)
	}
}

func TestEncrypt_RandomSourceRetriedOnce(t *testing.T) {
	r := &failingReader{failures: 1}
	c := NewCredentialCipher(WithRandom(r))

	record, err := c.Encrypt("secret", DeriveKey([]byte("uid-42")))
	require.NoError(t, err)
	assert.Equal(t, 2, r.calls)
	assert.True(t, strings.HasSuffix(record.String(), ":"+strings.Repeat("00", IVSize)))
}

func TestEncrypt_RandomSourceUnavailable(t *testing.T) {
	r := &failingReader{failures: 10}
	c := NewCredentialCipher(WithRandom(r))

	_, err := c.Encrypt("secret", DeriveKey([]byte("uid-42")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncoding)
	assert.Equal(t, ivReadAttempts, r.calls)
}

// ── Decrypt ─────────────────────────────────────────────────────────────────

func TestDecrypt_KnownVector(t *testing.T) {
	c := NewCredentialCipher()
	key := DeriveKey([]byte("uid-42"))

	got, err := c.Decrypt(models.EncryptedRecord("d0a988b114d7af2003bcabd67cab22e2:"+fixedIVHex), key)
	require.NoError(t, err)
	assert.Equal(t, "S3cr3t!pw", got)
}

func TestEncryptDecrypt_EndToEnd(t *testing.T) {
	c := NewCredentialCipher()
	key := c.DeriveKey([]byte("uid-42"))
	assert.Equal(t, "8cd1e4a52ed4c58a62303dadffb71a546a86535e934db41096e9c7e8cd994cb7", hex.EncodeToString(key))

	record, err := c.Encrypt("S3cr3t!pw", key)
	require.NoError(t, err)

	_, ivHex, found := strings.Cut(record.String(), ":")
	require.True(t, found)
	assert.Len(t, ivHex, 32)

	got, err := c.Decrypt(record, key)
	require.NoError(t, err)
	assert.Equal(t, "S3cr3t!pw", got)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := NewCredentialCipher()
	key := DeriveKey([]byte("user-123"))

	plaintexts := []string{
		"",
		"a",
		"S3cr3t!pw",
		"0123456789abcde",
		"0123456789abcdef",
		"0123456789abcdef0",
		"salasana-äöå-пароль-密码-🔐",
		strings.Repeat("long password ", 500),
		"contains:colons:too",
	}

	for _, p := range plaintexts {
		record, err := c.Encrypt(p, key)
		require.NoError(t, err)

		got, err := c.Decrypt(record, key)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	c := NewCredentialCipher()
	record := models.EncryptedRecord("d0a988b114d7af2003bcabd67cab22e2:" + fixedIVHex)

	got, err := c.Decrypt(record, DeriveKey([]byte("user-123")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecryption)
	assert.Empty(t, got)
}

func TestDecrypt_MalformedRecords(t *testing.T) {
	c := NewCredentialCipher()
	key := DeriveKey([]byte("uid-42"))
	validCT := "d0a988b114d7af2003bcabd67cab22e2"

	tests := []struct {
		name   string
		record string
	}{
		{name: "not a record", record: "not-a-valid-record"},
		{name: "empty", record: ""},
		{name: "missing separator", record: validCT + fixedIVHex},
		{name: "odd length ciphertext hex", record: validCT[:31] + ":" + fixedIVHex},
		{name: "odd length iv hex", record: validCT + ":" + fixedIVHex[:31]},
		{name: "non hex ciphertext", record: strings.Repeat("zz", 16) + ":" + fixedIVHex},
		{name: "short iv", record: validCT + ":" + fixedIVHex[:30]},
		{name: "long iv", record: validCT + ":" + fixedIVHex + "00"},
		{name: "empty ciphertext", record: ":" + fixedIVHex},
		{name: "partial block", record: validCT[:30] + ":" + fixedIVHex},
		{name: "second separator", record: validCT + ":" + fixedIVHex + ":" + fixedIVHex},
		{name: "legacy base64 value", record: "UzNjcjN0IXB3OmFiYw=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Decrypt(models.EncryptedRecord(tt.record), key)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecryption)
			assert.Empty(t, got)
		})
	}
}

func TestDecrypt_InvalidKeyLength(t *testing.T) {
	c := NewCredentialCipher()

	_, err := c.Decrypt(models.EncryptedRecord("d0a988b114d7af2003bcabd67cab22e2:"+fixedIVHex), make([]byte, 16))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestDecrypt_TamperedIV(t *testing.T) {
	c := NewCredentialCipher()
	key := DeriveKey([]byte("uid-42"))

	// Flipping IV bits changes the first plaintext block in a predictable way
	// for CBC; the result must still be a valid record but a different value.
	got, err := c.Decrypt(models.EncryptedRecord("d0a988b114d7af2003bcabd67cab22e2:010102030405060708090a0b0c0d0e0f"), key)
	require.NoError(t, err)
	assert.NotEqual(t, "S3cr3t!pw", got)
	assert.Equal(t, "R3cr3t!pw", got)
}

func TestCipher_ConcurrentUse(t *testing.T) {
	c := NewCredentialCipher()
	key := DeriveKey([]byte("uid-42"))

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := strings.Repeat("p", i)
			record, err := c.Encrypt(p, key)
			if err != nil {
				errs <- err
				return
			}
			got, err := c.Decrypt(record, key)
			if err != nil {
				errs <- err
				return
			}
			if got != p {
				errs <- errors.New("round trip mismatch")
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestParseRecord(t *testing.T) {
	ct, iv, err := ParseRecord(models.EncryptedRecord("d0a988b114d7af2003bcabd67cab22e2:" + fixedIVHex))
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "d0a988b114d7af2003bcabd67cab22e2"), ct)
	assert.Equal(t, fixedIV, iv)
}
