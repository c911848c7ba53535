package domain

import (
	"bytes"
	"encoding/hex"

	apperrors "github.com/allisson/attendance/internal/errors"
)

const (
	// KeySize is the symmetric key size in bytes (AES-256).
	KeySize = 32

	// IVSize is the initialization vector size in bytes (one AES block).
	IVSize = 16

	// ReservedByte is the field delimiter of the delimiter-separated key-row
	// export format. Key material must never contain it, so an exported row
	// always splits back into exactly three fields.
	ReservedByte byte = 0x20
)

// KeyMaterial is the symmetric key and initialization vector owned by one
// operation. It is generated once at the operation's first use, persisted
// immediately, and read-only afterwards; callers hold transient copies only.
type KeyMaterial struct {
	Key []byte
	IV  []byte
}

// Validate checks sizes and the reserved-byte constraint.
func (m KeyMaterial) Validate() error {
	if len(m.Key) != KeySize {
		return ErrInvalidKeySize
	}
	if len(m.IV) != IVSize {
		return ErrInvalidIVSize
	}
	if bytes.IndexByte(m.Key, ReservedByte) >= 0 || bytes.IndexByte(m.IV, ReservedByte) >= 0 {
		return ErrReservedByte
	}
	return nil
}

// Equal reports whether two key materials are bit-identical.
func (m KeyMaterial) Equal(other KeyMaterial) bool {
	return bytes.Equal(m.Key, other.Key) && bytes.Equal(m.IV, other.IV)
}

// KeyHex returns the hex encoding of the key for persistence.
func (m KeyMaterial) KeyHex() string {
	return hex.EncodeToString(m.Key)
}

// IVHex returns the hex encoding of the IV for persistence.
func (m KeyMaterial) IVHex() string {
	return hex.EncodeToString(m.IV)
}

// ParseKeyMaterial decodes a stored key row back into key material. The
// parser is strict and fails closed: anything other than well-formed hex of
// exactly the expected sizes is rejected as a malformed row, never partially
// accepted.
func ParseKeyMaterial(keyHex, ivHex string) (KeyMaterial, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return KeyMaterial{}, apperrors.Wrap(ErrMalformedKeyRow, "key is not valid hex")
	}
	if len(key) != KeySize {
		return KeyMaterial{}, apperrors.Wrap(ErrMalformedKeyRow, "key has wrong size")
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return KeyMaterial{}, apperrors.Wrap(ErrMalformedKeyRow, "iv is not valid hex")
	}
	if len(iv) != IVSize {
		return KeyMaterial{}, apperrors.Wrap(ErrMalformedKeyRow, "iv has wrong size")
	}

	return KeyMaterial{Key: key, IV: iv}, nil
}
