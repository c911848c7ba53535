package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/attendance/internal/errors"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
	ledgerService "github.com/allisson/attendance/internal/ledger/service"
)

// chainedLedger implements Ledger. Each append reads the course's chain head
// under a row lock, computes the next digest and inserts, all inside one
// transaction, so concurrent appenders to the same course serialize and the
// chain stays linear.
type chainedLedger struct {
	store     LedgerStore
	signer    ledgerService.ChainSigner
	txManager TxRunner
	secret    []byte
	now       func() time.Time
}

// NewLedger creates a new chained ledger. The secret feeds the HKDF-derived
// signing key of the digest chain.
func NewLedger(store LedgerStore, signer ledgerService.ChainSigner, txManager TxRunner, secret []byte) Ledger {
	return &chainedLedger{
		store:     store,
		signer:    signer,
		txManager: txManager,
		secret:    secret,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Append chains and stores the record.
func (l *chainedLedger) Append(ctx context.Context, record *ledgerDomain.Record) error {
	if err := l.validate(record); err != nil {
		return err
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.Must(uuid.NewV7())
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = l.now()
	}

	return l.txManager.WithTx(ctx, func(txCtx context.Context) error {
		position, prevDigest, err := l.store.Head(txCtx, record.Course)
		if err != nil {
			return err
		}

		record.Position = position + 1
		record.PrevDigest = prevDigest

		digest, err := l.signer.Digest(l.secret, record, prevDigest)
		if err != nil {
			return apperrors.Wrap(err, "failed to compute record digest")
		}
		record.Digest = digest

		return l.store.Insert(txCtx, record)
	})
}

func (l *chainedLedger) validate(record *ledgerDomain.Record) error {
	if !record.Kind.Valid() {
		return apperrors.Wrap(ledgerDomain.ErrRecordInvalid, "unknown operation kind")
	}
	if record.Course == "" {
		return apperrors.Wrap(ledgerDomain.ErrRecordInvalid, "course is required")
	}
	if len(record.Ciphertext) == 0 {
		return apperrors.Wrap(ledgerDomain.ErrRecordInvalid, "ciphertext is required")
	}
	return nil
}

// RecordsByOperation returns the operation's records in append order.
func (l *chainedLedger) RecordsByOperation(
	ctx context.Context,
	op keysDomain.Operation,
) ([]*ledgerDomain.Record, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return l.store.ListByOperation(ctx, op)
}

// CountByOperation returns how many records the operation holds.
func (l *chainedLedger) CountByOperation(ctx context.Context, op keysDomain.Operation) (int64, error) {
	if err := op.Validate(); err != nil {
		return 0, err
	}
	return l.store.CountByOperation(ctx, op)
}

// VerifyCourse recomputes the course's digest chain.
func (l *chainedLedger) VerifyCourse(ctx context.Context, course string) error {
	records, err := l.store.ListByCourse(ctx, course)
	if err != nil {
		return err
	}
	return l.signer.VerifyChain(l.secret, records)
}
