package domain

import (
	"github.com/allisson/attendance/internal/errors"
)

// Ledger error definitions.
var (
	// ErrLedgerUnavailable indicates the ledger store could not be reached.
	ErrLedgerUnavailable = errors.Wrap(errors.ErrUnavailable, "ledger unavailable")

	// ErrChainBroken indicates a record whose digest does not verify against
	// its content and predecessor.
	ErrChainBroken = errors.New("ledger chain verification failed")

	// ErrRecordInvalid indicates a record rejected before appending.
	ErrRecordInvalid = errors.Wrap(errors.ErrInvalidInput, "invalid ledger record")
)
