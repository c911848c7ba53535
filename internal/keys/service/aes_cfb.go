package service

import (
	"crypto/aes"
	"crypto/cipher"

	apperrors "github.com/allisson/attendance/internal/errors"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// AESCFBCipher implements the Cipher interface using AES-256 in CFB mode
// with PKCS#7 padding.
//
// CFB is a streaming feedback mode, so ciphertext length equals the padded
// plaintext length and no authentication tag is produced. Integrity of the
// stored records is provided separately by the ledger's hash chain; the
// cipher's only job here is confidentiality of the card identifier plus a
// deterministic, reversible framing of arbitrary-length plaintexts.
//
// The implementation is stateless: both Encrypt and Decrypt are pure
// functions of (key, iv, data), which is what makes the round-trip property
// testable and lets any holder of an operation's key material decrypt its
// archived ciphertexts.
type AESCFBCipher struct{}

// NewAESCFB creates a new AES-256-CFB cipher instance.
func NewAESCFB() *AESCFBCipher {
	return &AESCFBCipher{}
}

// Encrypt pads plaintext with PKCS#7 to the AES block size and encrypts it
// in CFB mode. The key must be 32 bytes and the IV 16 bytes.
func (a *AESCFBCipher) Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := newBlock(key, iv)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCFBEncrypter(block, iv).XORKeyStream(ciphertext, padded)

	return ciphertext, nil
}

// Decrypt decrypts ciphertext in CFB mode and removes the PKCS#7 padding.
// Returns keysDomain.ErrInvalidPadding when the ciphertext length or the
// recovered padding is structurally invalid, which is the observable symptom
// of corruption or a key/IV mismatch.
func (a *AESCFBCipher) Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := newBlock(key, iv)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, apperrors.Wrap(keysDomain.ErrInvalidPadding, "ciphertext is not block aligned")
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCFBDecrypter(block, iv).XORKeyStream(padded, ciphertext)

	return pkcs7Unpad(padded, aes.BlockSize)
}

// newBlock validates key and IV sizes and builds the AES block cipher.
func newBlock(key, iv []byte) (cipher.Block, error) {
	if len(key) != keysDomain.KeySize {
		return nil, keysDomain.ErrInvalidKeySize
	}
	if len(iv) != keysDomain.IVSize {
		return nil, keysDomain.ErrInvalidIVSize
	}
	return aes.NewCipher(key)
}

// pkcs7Pad appends 1..blockSize bytes, each holding the pad length.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs7Unpad removes PKCS#7 padding, rejecting any structurally invalid form.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, apperrors.Wrap(keysDomain.ErrInvalidPadding, "padded data is not block aligned")
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, apperrors.Wrap(keysDomain.ErrInvalidPadding, "pad length out of range")
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, apperrors.Wrap(keysDomain.ErrInvalidPadding, "inconsistent pad bytes")
		}
	}

	return data[:len(data)-padLen], nil
}
