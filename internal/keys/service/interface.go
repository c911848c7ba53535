// Package service provides the cryptographic primitives of the key subsystem:
// the symmetric cipher used for card identifiers and the generator that
// produces fresh key material.
package service

import (
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// Cipher defines the symmetric encrypt/decrypt primitive. Implementations
// must be pure functions of their inputs so that Decrypt(key, iv,
// Encrypt(key, iv, p)) == p for every valid plaintext.
type Cipher interface {
	// Encrypt encrypts plaintext under the given key and IV.
	Encrypt(key, iv, plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext under the given key and IV. Fails with
	// keysDomain.ErrInvalidPadding when the recovered padding is invalid.
	Decrypt(key, iv, ciphertext []byte) ([]byte, error)
}

// Generator produces fresh key material for a new operation.
type Generator interface {
	// Generate returns new random key material that satisfies the
	// reserved-byte constraint of the key-row export format.
	Generate() (keysDomain.KeyMaterial, error)
}
