package domain

import (
	"github.com/allisson/attendance/internal/errors"
)

// Key management error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so handlers can map them to HTTP status codes without knowing the key
// subsystem's internals.
var (
	// ErrKeyMissing indicates no key material exists for the operation.
	// Returned by lookup-only resolution; decryption of that operation's
	// records is unrecoverable until the key row reappears.
	ErrKeyMissing = errors.Wrap(errors.ErrNotFound, "key material not found")

	// ErrStoreUnavailable indicates the key store could not be reached.
	// A key may still have been partially committed; callers must retry
	// the lookup before generating fresh material.
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "key store unavailable")

	// ErrInvalidPadding indicates ciphertext whose recovered padding is
	// structurally invalid: corruption, truncation, or a key/IV mismatch.
	ErrInvalidPadding = errors.Wrap(errors.ErrInvalidInput, "invalid padding")

	// ErrInvalidKeySize indicates a key that is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidIVSize indicates an IV that is not exactly 16 bytes.
	ErrInvalidIVSize = errors.Wrap(errors.ErrInvalidInput, "invalid iv size")

	// ErrReservedByte indicates key material containing the reserved
	// delimiter byte of the key-row export format.
	ErrReservedByte = errors.Wrap(errors.ErrInvalidInput, "key material contains reserved delimiter byte")

	// ErrMalformedKeyRow indicates a stored key row that failed strict
	// hex decoding. Malformed rows are rejected, never repaired.
	ErrMalformedKeyRow = errors.Wrap(errors.ErrInvalidInput, "malformed key row")

	// ErrInvalidOperation indicates a structurally invalid operation identity.
	ErrInvalidOperation = errors.Wrap(errors.ErrInvalidInput, "invalid operation")
)
