package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/attendance/internal/database"
	apperrors "github.com/allisson/attendance/internal/errors"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// MySQLKeyRepository implements key-row persistence for MySQL.
// Uses INSERT IGNORE against the unique (course_name, label) index to get
// the same atomic first-writer-wins behavior as the PostgreSQL repository.
type MySQLKeyRepository struct {
	db *sql.DB
}

// NewMySQLKeyRepository creates a new MySQL key repository.
func NewMySQLKeyRepository(db *sql.DB) *MySQLKeyRepository {
	return &MySQLKeyRepository{db: db}
}

// TryInsert atomically stores material for the operation unless a row already
// exists, returning the authoritative stored row.
func (m *MySQLKeyRepository) TryInsert(
	ctx context.Context,
	op keysDomain.Operation,
	material keysDomain.KeyMaterial,
) (keysDomain.KeyMaterial, bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT IGNORE INTO course_keys (course_name, label, key_hex, iv_hex, created_at)
			  VALUES (?, ?, ?, ?, ?)`

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

	stored, err := m.Lookup(ctx, op)
	if err != nil {
		return keysDomain.KeyMaterial{}, false, err
	}
	return stored, false, nil
}

// Lookup reads the stored material for the operation.
func (m *MySQLKeyRepository) Lookup(
	ctx context.Context,
	op keysDomain.Operation,
) (keysDomain.KeyMaterial, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT key_hex, iv_hex
			  FROM course_keys
			  WHERE course_name = ? AND label = ?`

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

// ListByCourse returns every stored key row for a course ordered by creation
// time.
func (m *MySQLKeyRepository) ListByCourse(
	ctx context.Context,
	course string,
) ([]keysDomain.KeyRow, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT label, key_hex, iv_hex
			  FROM course_keys
			  WHERE course_name = ?
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
