package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierCodely/sistema-educativo/internal/models"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("FROM exam_enrollments e").
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "board_id", "subject_name", "board_name", "exam_date", "state"}).
			AddRow("6", "m1-c", "Comunicación", "Mesa 1", "2025-05-12", "WITHDRAWN"))

	enrollments, err := repo.ListByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, models.ExamEnrollment{SubjectID: "6", BoardID: "m1-c", SubjectName: "Comunicación", BoardName: "Mesa 1", Date: "2025-05-12", State: models.StateWithdrawn}, enrollments[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsForSubject(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM exam_enrollments WHERE student_id = $1 AND subject_id = $2 LIMIT 1")).
		WithArgs("student-1", "6").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM exam_enrollments")).
		WithArgs("student-1", "7").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsForSubject(context.Background(), "student-1", "6")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForSubject(context.Background(), "student-1", "7")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO exam_enrollments").
		WithArgs("student-1", "6", "m2-c", models.StateWithdrawn, sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), "student-1", models.ExamEnrollment{SubjectID: "6", BoardID: "m2-c", State: models.StateWithdrawn})
	assert.True(t, errors.Is(err, ErrDuplicateEnrollment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("DELETE FROM exam_enrollments").
		WithArgs("student-1", "6", "m1-c").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM exam_enrollments").
		WithArgs("student-1", "6", "m1-c").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "student-1", "6", "m1-c"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "student-1", "6", "m1-c"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
