package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/attendance/internal/database"
	apperrors "github.com/allisson/attendance/internal/errors"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
)

const mysqlRecordColumns = `id, operation_kind, course_name, qualifier, ciphertext,
			  first_name, last_name, matriculation, annotation,
			  position, prev_digest, digest, created_at`

// MySQLLedgerRepository implements ledger persistence for MySQL.
type MySQLLedgerRepository struct {
	db *sql.DB
}

// NewMySQLLedgerRepository creates a new MySQL ledger repository.
func NewMySQLLedgerRepository(db *sql.DB) *MySQLLedgerRepository {
	return &MySQLLedgerRepository{db: db}
}

// Insert appends a fully populated record.
func (m *MySQLLedgerRepository) Insert(ctx context.Context, record *ledgerDomain.Record) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO ledger_records (` + mysqlRecordColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID.String(),
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
// it for the surrounding transaction.
func (m *MySQLLedgerRepository) Head(ctx context.Context, course string) (int64, []byte, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT position, digest
			  FROM ledger_records
			  WHERE course_name = ?
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
func (m *MySQLLedgerRepository) ListByOperation(
	ctx context.Context,
	op keysDomain.Operation,
) ([]*ledgerDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlRecordColumns + `
			  FROM ledger_records
			  WHERE operation_kind = ? AND course_name = ? AND qualifier = ?
			  ORDER BY position ASC`

	rows, err := querier.QueryContext(ctx, query, op.Kind, op.Course, op.Qualifier)
	if err != nil {
		return nil, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
	}
	defer func() { _ = rows.Close() }()

	return scanMySQLRecords(rows)
}

// CountByOperation returns how many records the operation has appended.
func (m *MySQLLedgerRepository) CountByOperation(
	ctx context.Context,
	op keysDomain.Operation,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*)
			  FROM ledger_records
			  WHERE operation_kind = ? AND course_name = ? AND qualifier = ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, op.Kind, op.Course, op.Qualifier).Scan(&count); err != nil {
		return 0, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
	}
	return count, nil
}

// ListByCourse returns every record of a course in chain order.
func (m *MySQLLedgerRepository) ListByCourse(
	ctx context.Context,
	course string,
) ([]*ledgerDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlRecordColumns + `
			  FROM ledger_records
			  WHERE course_name = ?
			  ORDER BY position ASC`

	rows, err := querier.QueryContext(ctx, query, course)
	if err != nil {
		return nil, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
	}
	defer func() { _ = rows.Close() }()

	return scanMySQLRecords(rows)
}

// scanMySQLRecords scans rows whose id column is a CHAR(36) uuid string.
func scanMySQLRecords(rows *sql.Rows) ([]*ledgerDomain.Record, error) {
	var out []*ledgerDomain.Record
	for rows.Next() {
		var record ledgerDomain.Record
		var id string
		err := rows.Scan(
			&id,
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
		parsed, err := parseRecordID(id)
		if err != nil {
			return nil, err
		}
		record.ID = parsed
		out = append(out, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, err.Error())
	}
	return out, nil
}
