// Package usecase implements the append-only ledger on top of the chained
// SQL store.
package usecase

import (
	"context"

	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
)

// LedgerStore abstracts ledger persistence. Implementations live in
// internal/ledger/repository.
type LedgerStore interface {
	Insert(ctx context.Context, record *ledgerDomain.Record) error
	Head(ctx context.Context, course string) (int64, []byte, error)
	ListByOperation(ctx context.Context, op keysDomain.Operation) ([]*ledgerDomain.Record, error)
	CountByOperation(ctx context.Context, op keysDomain.Operation) (int64, error)
	ListByCourse(ctx context.Context, course string) ([]*ledgerDomain.Record, error)
}

// TxRunner runs a function inside a database transaction. Satisfied by
// database.TxManager.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Ledger is the append-only record log. Records are never updated or
// deleted; every append extends the owning course's digest chain.
type Ledger interface {
	// Append chains and stores the record, assigning its ID, position and
	// digests. Runs in a single transaction so the chain never forks.
	Append(ctx context.Context, record *ledgerDomain.Record) error

	// RecordsByOperation returns the operation's records in append order.
	RecordsByOperation(ctx context.Context, op keysDomain.Operation) ([]*ledgerDomain.Record, error)

	// CountByOperation returns how many records the operation holds.
	CountByOperation(ctx context.Context, op keysDomain.Operation) (int64, error)

	// VerifyCourse recomputes the course's digest chain, failing with
	// ledgerDomain.ErrChainBroken on any tampered or missing record.
	VerifyCourse(ctx context.Context, course string) error
}
