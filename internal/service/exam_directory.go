package service

import "github.com/JavierCodely/sistema-educativo/internal/models"

// AvailableForEnrollment drops every grouping whose subject already has an enrollment.
// The result is a new slice in the order of boards; neither input is modified.
func AvailableForEnrollment(boards []models.AvailableBoard, enrollments []models.ExamEnrollment) []models.AvailableBoard {
	enrolled := make(map[string]struct{}, len(enrollments))
	for _, e := range enrollments {
		enrolled[e.SubjectID] = struct{}{}
	}

	open := make([]models.AvailableBoard, 0, len(boards))
	for _, b := range boards {
		if _, ok := enrolled[b.SubjectID]; ok {
			continue
		}
		open = append(open, b)
	}
	return open
}

// FindBoard locates a board id within the groupings, returning its owner and entry.
func FindBoard(boards []models.AvailableBoard, boardID string) (models.AvailableBoard, models.ExamBoard, bool) {
	for _, group := range boards {
		for _, board := range group.Boards {
			if board.ID == boardID {
				return group, board, true
			}
		}
	}
	return models.AvailableBoard{}, models.ExamBoard{}, false
}
