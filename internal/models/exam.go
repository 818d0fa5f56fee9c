package models

// ExamBoard ("mesa") is one scheduled sitting of a final exam.
type ExamBoard struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Date string `db:"exam_date" json:"date"`
}

// AvailableBoard groups the open boards of one subject, with the subject state
// snapshotted when the listing was produced.
type AvailableBoard struct {
	SubjectID   string        `json:"subject_id"`
	SubjectName string        `json:"subject_name"`
	State       AcademicState `json:"state"`
	Boards      []ExamBoard   `json:"boards"`
}

// Blocked reports whether the subject still owes a prerequisite, which rules out
// enrolling in any of its boards.
func (b AvailableBoard) Blocked() bool {
	return b.State == StateMissingPrerequisite
}

// ExamEnrollment ("inscripción") registers a student to one board of a subject.
type ExamEnrollment struct {
	SubjectID   string        `db:"subject_id" json:"subject_id"`
	BoardID     string        `db:"board_id" json:"board_id"`
	SubjectName string        `db:"subject_name" json:"subject_name"`
	BoardName   string        `db:"board_name" json:"board_name"`
	Date        string        `db:"exam_date" json:"date"`
	State       AcademicState `db:"state" json:"state"`
}

// Matches reports whether the enrollment is for the given subject and board.
func (e ExamEnrollment) Matches(subjectID, boardID string) bool {
	return e.SubjectID == subjectID && e.BoardID == boardID
}

// CreateExamEnrollmentRequest carries the client-asserted state snapshot along with the
// board selection. The server stores the snapshot as sent.
type CreateExamEnrollmentRequest struct {
	SubjectID string        `json:"subject_id" validate:"required"`
	BoardID   string        `json:"board_id" validate:"required"`
	State     AcademicState `json:"state" validate:"required"`
}
