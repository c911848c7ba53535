// Package repository implements ledger persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/attendance/internal/database"
	apperrors "github.com/allisson/attendance/internal/errors"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
)

const postgresRecordColumns = `id, operation_kind, course_name, qualifier, ciphertext,
			  first_name, last_name, matriculation, annotation,
			  position, prev_digest, digest, created_at`

// PostgreSQLLedgerRepository implements ledger persistence for PostgreSQL.
// Appends run inside a caller-provided transaction via database.GetTx(); Head
// locks the course's tail row so concurrent appenders serialize on position.
type PostgreSQLLedgerRepository struct {
	db *sql.DB
}

// NewPostgreSQLLedgerRepository creates a new PostgreSQL ledger repository.
func NewPostgreSQLLedgerRepository(db *sql.DB) *PostgreSQLLedgerRepository {
	return &PostgreSQLLedgerRepository{db: db}
}

// Insert appends a fully populated record. Position, prev_digest and digest
// must already be computed by the caller.
func (p *PostgreSQLLedgerRepository) Insert(ctx context.Context, record *ledgerDomain.Record) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO ledger_records (` + postgresRecordColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.Kind,
		record.Course,
		record.Qualifier,
		record.Ciphertext,
		record.FirstName,
		record.LastName,
		record.Matriculation,
		record.Annotation,
		record.Position,
		record.PrevDigest,
		record.Digest,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
	}
	return nil
}

// Head returns the position and digest of the course's last record, locking
// it for the duration of the surrounding transaction. A course with no
// records yields position 0 and a nil digest.
func (p *PostgreSQLLedgerRepository) Head(ctx context.Context, course string) (int64, []byte, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT position, digest
			  FROM ledger_records
			  WHERE course_name = $1
			  ORDER BY position DESC
			  LIMIT 1
			  FOR UPDATE`

	var position int64
	var digest []byte
	err := querier.QueryRowContext(ctx, query, course).Scan(&position, &digest)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil, nil
		}
		return 0, nil, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
	}

	return position, digest, nil
}

// ListByOperation returns the operation's records in append order.
func (p *PostgreSQLLedgerRepository) ListByOperation(
	ctx context.Context,
	op keysDomain.Operation,
) ([]*ledgerDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresRecordColumns + `
			  FROM ledger_records
			  WHERE operation_kind = $1 AND course_name = $2 AND qualifier = $3
			  ORDER BY position ASC`

	rows, err := querier.QueryContext(ctx, query, op.Kind, op.Course, op.Qualifier)
	if err != nil {
		return nil, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// CountByOperation returns how many records the operation has appended.
func (p *PostgreSQLLedgerRepository) CountByOperation(
	ctx context.Context,
	op keysDomain.Operation,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*)
			  FROM ledger_records
			  WHERE operation_kind = $1 AND course_name = $2 AND qualifier = $3`

	var count int64
	if err := querier.QueryRowContext(ctx, query, op.Kind, op.Course, op.Qualifier).Scan(&count); err != nil {
		return 0, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
	}
	return count, nil
}

// ListByCourse returns every record of a course in chain order, for
// verification.
func (p *PostgreSQLLedgerRepository) ListByCourse(
	ctx context.Context,
	course string,
) ([]*ledgerDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresRecordColumns + `
			  FROM ledger_records
			  WHERE course_name = $1
			  ORDER BY position ASC`

	rows, err := querier.QueryContext(ctx, query, course)
	if err != nil {
		return nil, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]*ledgerDomain.Record, error) {
	var out []*ledgerDomain.Record
	for rows.Next() {
		var record ledgerDomain.Record
		err := rows.Scan(
			&record.ID,
			&record.Kind,
			&record.Course,
			&record.Qualifier,
			&record.Ciphertext,
			&record.FirstName,
			&record.LastName,
			&record.Matriculation,
			&record.Annotation,
			&record.Position,
			&record.PrevDigest,
			&record.Digest,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
		}
		out = append(out, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
	}
	return out, nil
}
