package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attendanceDomain "github.com/allisson/attendance/internal/attendance/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testStudent() *attendanceDomain.Student {
	return &attendanceDomain.Student{
		CardID:        "42",
		FirstName:     "Maria",
		LastName:      "Rossi",
		Matriculation: "M001",
	}
}

func TestPostgreSQLStudentRepository_InsertIfAbsent(t *testing.T) {
	t.Run("new card is inserted", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLStudentRepository(db)
		student := testStudent()

		mock.ExpectExec("INSERT INTO students").
			WithArgs(student.CardID, student.FirstName, student.LastName, student.Matriculation, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		inserted, err := repo.InsertIfAbsent(context.Background(), student)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("registered card is left untouched", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLStudentRepository(db)

		mock.ExpectExec("INSERT INTO students").
			WillReturnResult(sqlmock.NewResult(0, 0))

		inserted, err := repo.InsertIfAbsent(context.Background(), testStudent())
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("taken matriculation is a conflict", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLStudentRepository(db)

		mock.ExpectExec("INSERT INTO students").
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "students_matriculation_key"`))

		_, err := repo.InsertIfAbsent(context.Background(), testStudent())
		assert.ErrorIs(t, err, attendanceDomain.ErrMatriculationTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreachable directory", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLStudentRepository(db)

		mock.ExpectExec("INSERT INTO students").
			WillReturnError(sql.ErrConnDone)

		_, err := repo.InsertIfAbsent(context.Background(), testStudent())
		assert.ErrorIs(t, err, attendanceDomain.ErrDirectoryUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLStudentRepository_FindByCardID(t *testing.T) {
	t.Run("existing card", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLStudentRepository(db)
		student := testStudent()

		mock.ExpectQuery("SELECT card_id, first_name, last_name, matriculation, created_at").
			WithArgs("42").
			WillReturnRows(sqlmock.NewRows([]string{"card_id", "first_name", "last_name", "matriculation", "created_at"}).
				AddRow(student.CardID, student.FirstName, student.LastName, student.Matriculation, time.Now().UTC()))

		found, err := repo.FindByCardID(context.Background(), "42")
		require.NoError(t, err)
		assert.Equal(t, "Maria", found.FirstName)
		assert.Equal(t, "M001", found.Matriculation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown card", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLStudentRepository(db)

		mock.ExpectQuery("SELECT card_id, first_name, last_name, matriculation, created_at").
			WithArgs("99").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByCardID(context.Background(), "99")
		assert.ErrorIs(t, err, attendanceDomain.ErrStudentUnknown)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
