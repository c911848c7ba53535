// Package repository implements student directory persistence for PostgreSQL
// and MySQL.
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	attendanceDomain "github.com/allisson/attendance/internal/attendance/domain"
	"github.com/allisson/attendance/internal/database"
	apperrors "github.com/allisson/attendance/internal/errors"
)

// PostgreSQLStudentRepository implements the student directory for
// PostgreSQL. Entries are insert-if-absent on card_id; the unique
// matriculation index guards against two cards claiming one matriculation
// number.
type PostgreSQLStudentRepository struct {
	db *sql.DB
}

// NewPostgreSQLStudentRepository creates a new PostgreSQL student repository.
func NewPostgreSQLStudentRepository(db *sql.DB) *PostgreSQLStudentRepository {
	return &PostgreSQLStudentRepository{db: db}
}

// InsertIfAbsent stores the student unless the card is already registered.
// Returns whether this call created the entry.
func (p *PostgreSQLStudentRepository) InsertIfAbsent(
	ctx context.Context,
	student *attendanceDomain.Student,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO students (card_id, first_name, last_name, matriculation, created_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (card_id) DO NOTHING`

	result, err := querier.ExecContext(
		ctx,
		query,
		student.CardID,
		student.FirstName,
		student.LastName,
		student.Matriculation,
		time.Now().UTC(),
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return false, attendanceDomain.ErrMatriculationTaken
		}
		return false, apperrors.Wrap(attendanceDomain.ErrDirectoryUnavailable, err.Error())
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(attendanceDomain.ErrDirectoryUnavailable, err.Error())
	}

	return rows == 1, nil
}

// FindByCardID looks up the student owning a card.
func (p *PostgreSQLStudentRepository) FindByCardID(
	ctx context.Context,
	cardID string,
) (*attendanceDomain.Student, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT card_id, first_name, last_name, matriculation, created_at
			  FROM students
			  WHERE card_id = $1`

	var student attendanceDomain.Student
	err := querier.QueryRowContext(ctx, query, cardID).Scan(
		&student.CardID,
		&student.FirstName,
		&student.LastName,
		&student.Matriculation,
		&student.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, attendanceDomain.ErrStudentUnknown
		}
		return nil, apperrors.Wrap(attendanceDomain.ErrDirectoryUnavailable, err.Error())
	}

	return &student, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique
// constraint violation. The ON CONFLICT clause absorbs card_id conflicts, so
// any surfaced violation comes from the matriculation index.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
