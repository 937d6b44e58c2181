package crypto

import (
	"crypto/subtle"
	"errors"
)

var errInvalidPadding = errors.New("invalid padding")

// pkcs7Pad returns a copy of data padded to a multiple of blockSize.
// A full block of padding is appended when data is already aligned.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// pkcs7Unpad validates and strips PKCS#7 padding. The returned slice
// shares memory with data.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errInvalidPadding
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errInvalidPadding
	}

	// inspect every pad byte regardless of where a mismatch occurs
	good := 1
	for _, b := range data[len(data)-n:] {
		good &= subtle.ConstantTimeByteEq(b, byte(n))
	}
	if good != 1 {
		return nil, errInvalidPadding
	}

	return data[:len(data)-n], nil
}
