// Package repository implements key-row persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/attendance/internal/database"
	apperrors "github.com/allisson/attendance/internal/errors"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// PostgreSQLKeyRepository implements key-row persistence for PostgreSQL.
// Issuance races are resolved by the database: the unique constraint on
// (course_name, label) plus ON CONFLICT DO NOTHING make TryInsert atomic,
// so concurrent writers converge on a single winning row.
type PostgreSQLKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLKeyRepository creates a new PostgreSQL key repository.
func NewPostgreSQLKeyRepository(db *sql.DB) *PostgreSQLKeyRepository {
	return &PostgreSQLKeyRepository{db: db}
}

// TryInsert atomically stores material for the operation unless a row already
// exists. The returned material is always the authoritative stored row, which
// on a lost race differs from the candidate the caller generated.
func (p *PostgreSQLKeyRepository) TryInsert(
	ctx context.Context,
	op keysDomain.Operation,
	material keysDomain.KeyMaterial,
) (keysDomain.KeyMaterial, bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO course_keys (course_name, label, key_hex, iv_hex, created_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (course_name, label) DO NOTHING`

	result, err := querier.ExecContext(
		ctx,
		query,
		op.Course,
		op.Label(),
		material.KeyHex(),
		material.IVHex(),
		time.Now().UTC(),
	)
	if err != nil {
		return keysDomain.KeyMaterial{}, false, apperrors.Wrap(keysDomain.ErrStoreUnavailable, err.Error())
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return keysDomain.KeyMaterial{}, false, apperrors.Wrap(keysDomain.ErrStoreUnavailable, err.Error())
	}

	if rows == 1 {
		return material, true, nil
	}

	// Lost the race: the row that won is the authoritative one.
	stored, err := p.Lookup(ctx, op)
	if err != nil {
		return keysDomain.KeyMaterial{}, false, err
	}
	return stored, false, nil
}

// Lookup reads the stored material for the operation. Missing rows map to
// keysDomain.ErrKeyMissing and malformed rows are rejected by the strict
// hex codec.
func (p *PostgreSQLKeyRepository) Lookup(
	ctx context.Context,
	op keysDomain.Operation,
) (keysDomain.KeyMaterial, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT key_hex, iv_hex
			  FROM course_keys
			  WHERE course_name = $1 AND label = $2`

	var keyHex, ivHex string
	err := querier.QueryRowContext(ctx, query, op.Course, op.Label()).Scan(&keyHex, &ivHex)
	if err != nil {
		if err == sql.ErrNoRows {
			return keysDomain.KeyMaterial{}, keysDomain.ErrKeyMissing
		}
		return keysDomain.KeyMaterial{}, apperrors.Wrap(keysDomain.ErrStoreUnavailable, err.Error())
	}

	return keysDomain.ParseKeyMaterial(keyHex, ivHex)
}

// ListByCourse returns every stored key row for a course as (label, material)
// pairs ordered by creation time. Used by the key-sheet export.
func (p *PostgreSQLKeyRepository) ListByCourse(
	ctx context.Context,
	course string,
) ([]keysDomain.KeyRow, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT label, key_hex, iv_hex
			  FROM course_keys
			  WHERE course_name = $1
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, course)
	if err != nil {
		return nil, apperrors.Wrap(keysDomain.ErrStoreUnavailable, err.Error())
	}
	defer func() { _ = rows.Close() }()

	var out []keysDomain.KeyRow
	for rows.Next() {
		var label, keyHex, ivHex string
		if err := rows.Scan(&label, &keyHex, &ivHex); err != nil {
			return nil, apperrors.Wrap(keysDomain.ErrStoreUnavailable, err.Error())
		}
		material, err := keysDomain.ParseKeyMaterial(keyHex, ivHex)
		if err != nil {
			return nil, err
		}
		out = append(out, keysDomain.KeyRow{Label: label, Material: material})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(keysDomain.ErrStoreUnavailable, err.Error())
	}

	return out, nil
}
