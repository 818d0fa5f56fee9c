package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/JavierCodely/sistema-educativo/internal/models"
)

// SubjectRepository reads the curriculum together with one student's progress in it.
type SubjectRepository struct {
	db *sqlx.DB
}

type subjectRow struct {
	ID            string         `db:"id"`
	Code          string         `db:"code"`
	Name          string         `db:"name"`
	Year          int            `db:"year"`
	Prerequisites pq.StringArray `db:"prerequisites"`
	State         string         `db:"state"`
}

type gradeRow struct {
	ID        string  `db:"id"`
	SubjectID string  `db:"subject_id"`
	Value     float64 `db:"value"`
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectColumns = `s.id, s.code, s.name, s.year, s.prerequisites, COALESCE(ss.state, 'NOT_TAKEN') AS state
FROM subjects s LEFT JOIN student_subjects ss ON ss.subject_id = s.id AND ss.student_id = $1`

// List returns the catalog as seen by filter.StudentID, ordered by year and curriculum position.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	query := "SELECT " + subjectColumns
	args := []interface{}{filter.StudentID}
	if filter.Year > 0 {
		query += " WHERE s.year = $2"
		args = append(args, filter.Year)
	}
	query += " ORDER BY s.year, s.position"

	var rows []subjectRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	grades, err := r.gradesByStudent(ctx, filter.StudentID)
	if err != nil {
		return nil, err
	}

	subjects := make([]models.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.toModel(grades[row.ID]))
	}
	return subjects, nil
}

func (r *SubjectRepository) gradesByStudent(ctx context.Context, studentID string) (map[string][]models.Grade, error) {
	const query = `SELECT id, subject_id, value FROM grades WHERE student_id = $1 ORDER BY recorded_at`
	var rows []gradeRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	out := make(map[string][]models.Grade, len(rows))
	for _, g := range rows {
		out[g.SubjectID] = append(out[g.SubjectID], models.Grade{ID: g.ID, Value: g.Value})
	}
	return out, nil
}

func (row subjectRow) toModel(grades []models.Grade) models.Subject {
	prereqs := []string(row.Prerequisites)
	if prereqs == nil {
		prereqs = []string{}
	}
	if grades == nil {
		grades = []models.Grade{}
	}
	return models.Subject{
		ID:            row.ID,
		Code:          row.Code,
		Name:          row.Name,
		Year:          row.Year,
		Prerequisites: prereqs,
		State:         models.AcademicState(row.State),
		Grades:        grades,
	}
}
