package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

func testMaterial(t *testing.T) keysDomain.KeyMaterial {
	t.Helper()

	material, err := NewGenerator().Generate()
	require.NoError(t, err)
	return material
}

func TestAESCFBCipherRoundTrip(t *testing.T) {
	c := NewAESCFB()
	material := testMaterial(t)

	for _, size := range []int{0, 1, 2, 15, 16, 17, 31, 32, 33, 255, 1024, 10000} {
		plaintext := make([]byte, size)
		_, err := rand.Read(plaintext)
		require.NoError(t, err)

		ciphertext, err := c.Encrypt(material.Key, material.IV, plaintext)
		require.NoError(t, err)
		assert.Equal(t, 0, len(ciphertext)%16)
		assert.Greater(t, len(ciphertext), size)

		decrypted, err := c.Decrypt(material.Key, material.IV, ciphertext)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, decrypted), "round trip mismatch at size %d", size)
	}
}

func TestAESCFBCipherDeterministic(t *testing.T) {
	c := NewAESCFB()
	material := testMaterial(t)
	plaintext := []byte("42")

	first, err := c.Encrypt(material.Key, material.IV, plaintext)
	require.NoError(t, err)
	second, err := c.Encrypt(material.Key, material.IV, plaintext)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAESCFBCipherDifferentKeysDifferentCiphertext(t *testing.T) {
	c := NewAESCFB()
	a := testMaterial(t)
	b := testMaterial(t)
	plaintext := []byte("same card identifier")

	ca, err := c.Encrypt(a.Key, a.IV, plaintext)
	require.NoError(t, err)
	cb, err := c.Encrypt(b.Key, b.IV, plaintext)
	require.NoError(t, err)

	assert.NotEqual(t, ca, cb)
}

func TestAESCFBCipherCorruptedCiphertext(t *testing.T) {
	c := NewAESCFB()
	material := testMaterial(t)

	ciphertext, err := c.Encrypt(material.Key, material.IV, []byte("card-7781"))
	require.NoError(t, err)

	// In CFB the last byte of plaintext depends only on the last byte of
	// ciphertext, so flipping every bit of it corrupts the pad length byte
	// deterministically.
	ciphertext[len(ciphertext)-1] ^= 0xFF

	_, err = c.Decrypt(material.Key, material.IV, ciphertext)
	assert.ErrorIs(t, err, keysDomain.ErrInvalidPadding)
}

func TestAESCFBCipherTruncatedCiphertext(t *testing.T) {
	c := NewAESCFB()
	material := testMaterial(t)

	ciphertext, err := c.Encrypt(material.Key, material.IV, []byte("card-7781"))
	require.NoError(t, err)

	_, err = c.Decrypt(material.Key, material.IV, ciphertext[:len(ciphertext)-1])
	assert.ErrorIs(t, err, keysDomain.ErrInvalidPadding)

	_, err = c.Decrypt(material.Key, material.IV, nil)
	assert.ErrorIs(t, err, keysDomain.ErrInvalidPadding)
}

func TestAESCFBCipherInvalidSizes(t *testing.T) {
	c := NewAESCFB()
	material := testMaterial(t)

	_, err := c.Encrypt(material.Key[:16], material.IV, []byte("x"))
	assert.ErrorIs(t, err, keysDomain.ErrInvalidKeySize)

	_, err = c.Encrypt(material.Key, material.IV[:8], []byte("x"))
	assert.ErrorIs(t, err, keysDomain.ErrInvalidIVSize)

	_, err = c.Decrypt(material.Key[:16], material.IV, bytes.Repeat([]byte{0x00}, 16))
	assert.ErrorIs(t, err, keysDomain.ErrInvalidKeySize)
}

func TestPKCS7Pad(t *testing.T) {
	t.Run("full block of padding for aligned input", func(t *testing.T) {
		padded := pkcs7Pad(bytes.Repeat([]byte{0x01}, 16), 16)
		assert.Len(t, padded, 32)
		assert.Equal(t, byte(16), padded[31])
	})

	t.Run("empty input becomes one block", func(t *testing.T) {
		padded := pkcs7Pad(nil, 16)
		assert.Equal(t, bytes.Repeat([]byte{16}, 16), padded)
	})

	t.Run("unpad rejects inconsistent pad bytes", func(t *testing.T) {
		data := bytes.Repeat([]byte{0x05}, 16)
		data[14] = 0x04
		_, err := pkcs7Unpad(data, 16)
		assert.ErrorIs(t, err, keysDomain.ErrInvalidPadding)
	})

	t.Run("unpad rejects zero pad length", func(t *testing.T) {
		data := bytes.Repeat([]byte{0x00}, 16)
		_, err := pkcs7Unpad(data, 16)
		assert.ErrorIs(t, err, keysDomain.ErrInvalidPadding)
	})

	t.Run("unpad rejects pad length above block size", func(t *testing.T) {
		data := bytes.Repeat([]byte{0x11}, 16)
		_, err := pkcs7Unpad(data, 16)
		assert.ErrorIs(t, err, keysDomain.ErrInvalidPadding)
	})
}
