package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/JavierCodely/sistema-educativo/internal/models"
)

// ExamBoardRepository lists exam boards ("mesas") open for enrollment.
type ExamBoardRepository struct {
	db *sqlx.DB
}

type boardRow struct {
	SubjectID   string `db:"subject_id"`
	SubjectName string `db:"subject_name"`
	State       string `db:"state"`
	BoardID     string `db:"board_id"`
	BoardName   string `db:"board_name"`
	Date        string `db:"exam_date"`
}

// NewExamBoardRepository constructs the repository.
func NewExamBoardRepository(db *sqlx.DB) *ExamBoardRepository {
	return &ExamBoardRepository{db: db}
}

// ListOpen returns open boards grouped by subject, each group annotated with the
// student's current state in the subject. Groups follow curriculum order and boards
// within a group are sorted by date.
func (r *ExamBoardRepository) ListOpen(ctx context.Context, studentID string) ([]models.AvailableBoard, error) {
	const query = `SELECT b.subject_id, s.name AS subject_name, COALESCE(ss.state, 'NOT_TAKEN') AS state,
b.id AS board_id, b.name AS board_name, to_char(b.exam_date, 'YYYY-MM-DD') AS exam_date
FROM exam_boards b
JOIN subjects s ON s.id = b.subject_id
LEFT JOIN student_subjects ss ON ss.subject_id = b.subject_id AND ss.student_id = $1
WHERE b.open = TRUE
ORDER BY s.year, s.position, b.exam_date, b.id`

	var rows []boardRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list exam boards: %w", err)
	}
	return groupBoards(rows), nil
}

func groupBoards(rows []boardRow) []models.AvailableBoard {
	groups := make([]models.AvailableBoard, 0)
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.SubjectID]
		if !ok {
			i = len(groups)
			index[row.SubjectID] = i
			groups = append(groups, models.AvailableBoard{
				SubjectID:   row.SubjectID,
				SubjectName: row.SubjectName,
				State:       models.AcademicState(row.State),
				Boards:      []models.ExamBoard{},
			})
		}
		groups[i].Boards = append(groups[i].Boards, models.ExamBoard{ID: row.BoardID, Name: row.BoardName, Date: row.Date})
	}
	return groups
}
