package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/JavierCodely/sistema-educativo/internal/models"
)

// ErrDuplicateEnrollment is returned when the student already holds an enrollment for the subject.
var ErrDuplicateEnrollment = errors.New("exam enrollment already exists for subject")

const uniqueViolation = "23505"

// EnrollmentRepository persists exam enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByStudent returns the student's enrollments in creation order.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ExamEnrollment, error) {
	const query = `SELECT e.subject_id, e.board_id, s.name AS subject_name, b.name AS board_name,
to_char(b.exam_date, 'YYYY-MM-DD') AS exam_date, e.state
FROM exam_enrollments e
JOIN exam_boards b ON b.id = e.board_id
JOIN subjects s ON s.id = e.subject_id
WHERE e.student_id = $1
ORDER BY e.created_at, e.board_id`

	enrollments := make([]models.ExamEnrollment, 0)
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list exam enrollments: %w", err)
	}
	return enrollments, nil
}

// ExistsForSubject reports whether the student has any enrollment for the subject.
func (r *EnrollmentRepository) ExistsForSubject(ctx context.Context, studentID, subjectID string) (bool, error) {
	const query = `SELECT 1 FROM exam_enrollments WHERE student_id = $1 AND subject_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check exam enrollment: %w", err)
	}
	return true, nil
}

// Create stores the enrollment with the state snapshot asserted by the client.
func (r *EnrollmentRepository) Create(ctx context.Context, studentID string, enrollment models.ExamEnrollment) error {
	const query = `INSERT INTO exam_enrollments (student_id, subject_id, board_id, state, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, studentID, enrollment.SubjectID, enrollment.BoardID, enrollment.State, time.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicateEnrollment
		}
		return fmt.Errorf("create exam enrollment: %w", err)
	}
	return nil
}

// Delete removes exactly the (subject, board) enrollment of the student. It returns
// sql.ErrNoRows when nothing matched.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, subjectID, boardID string) error {
	const query = `DELETE FROM exam_enrollments WHERE student_id = $1 AND subject_id = $2 AND board_id = $3`
	res, err := r.db.ExecContext(ctx, query, studentID, subjectID, boardID)
	if err != nil {
		return fmt.Errorf("delete exam enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete exam enrollment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
