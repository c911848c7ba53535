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

// MySQLStudentRepository implements the student directory for MySQL.
type MySQLStudentRepository struct {
	db *sql.DB
}

// NewMySQLStudentRepository creates a new MySQL student repository.
func NewMySQLStudentRepository(db *sql.DB) *MySQLStudentRepository {
	return &MySQLStudentRepository{db: db}
}

// InsertIfAbsent stores the student unless the card is already registered.
// MySQL has no per-index conflict targeting, so a plain insert is used and
// both violation kinds are told apart by the index name in the error.
func (m *MySQLStudentRepository) InsertIfAbsent(
	ctx context.Context,
	student *attendanceDomain.Student,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO students (card_id, first_name, last_name, matriculation, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		student.CardID,
		student.FirstName,
		student.LastName,
		student.Matriculation,
		time.Now().UTC(),
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			if strings.Contains(strings.ToLower(err.Error()), "matriculation") {
				return false, attendanceDomain.ErrMatriculationTaken
			}
			return false, nil
		}
		return false, apperrors.Wrap(attendanceDomain.ErrDirectoryUnavailable, err.Error())
	}

	return true, nil
}

// FindByCardID looks up the student owning a card.
func (m *MySQLStudentRepository) FindByCardID(
	ctx context.Context,
	cardID string,
) (*attendanceDomain.Student, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT card_id, first_name, last_name, matriculation, created_at
			  FROM students
			  WHERE card_id = ?`

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

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint
// violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
