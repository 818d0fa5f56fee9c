package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	"github.com/JavierCodely/sistema-educativo/internal/repository"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
)

type examBoardRepository interface {
	ListOpen(ctx context.Context, studentID string) ([]models.AvailableBoard, error)
}

type examEnrollmentRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.ExamEnrollment, error)
	ExistsForSubject(ctx context.Context, studentID, subjectID string) (bool, error)
	Create(ctx context.Context, studentID string, enrollment models.ExamEnrollment) error
	Delete(ctx context.Context, studentID, subjectID, boardID string) error
}

type noticeSink interface {
	Notify(ctx context.Context, n *models.Notification) error
}

// ExamService manages exam boards and the student's enrollments to them.
type ExamService struct {
	boards      examBoardRepository
	enrollments examEnrollmentRepository
	notices     noticeSink
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewExamService wires the service. cache and metrics may be nil.
func NewExamService(boards examBoardRepository, enrollments examEnrollmentRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{
		boards:      boards,
		enrollments: enrollments,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// WithNotices makes the service leave an EXAMEN notification after each enrollment change.
func (s *ExamService) WithNotices(sink noticeSink) *ExamService {
	s.notices = sink
	return s
}

// AvailableBoards lists every open board grouped by subject.
func (s *ExamService) AvailableBoards(ctx context.Context, studentID string) ([]models.AvailableBoard, error) {
	key := BoardsCacheKey(studentID)
	var cached []models.AvailableBoard
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	boards, err := s.boards.ListOpen(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list exam boards")
	}
	_ = s.cache.Set(ctx, key, boards, 0)
	return boards, nil
}

// OpenBoards is the enrollment directory: available boards of subjects the student is
// not yet enrolled in.
func (s *ExamService) OpenBoards(ctx context.Context, studentID string) ([]models.AvailableBoard, error) {
	boards, err := s.AvailableBoards(ctx, studentID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.Enrollments(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return AvailableForEnrollment(boards, enrollments), nil
}

// Enrollments lists the student's current exam enrollments.
func (s *ExamService) Enrollments(ctx context.Context, studentID string) ([]models.ExamEnrollment, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list exam enrollments")
	}
	return enrollments, nil
}

// CreateEnrollment registers the student to a board. The asserted state is stored as
// sent; a difference from the current catalog state is only logged.
func (s *ExamService) CreateEnrollment(ctx context.Context, studentID string, req models.CreateExamEnrollmentRequest) (*models.ExamEnrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordEnrollment(ActionEnroll, OutcomeRejected)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if !req.State.Valid() {
		s.metrics.RecordEnrollment(ActionEnroll, OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown academic state")
	}

	boards, err := s.AvailableBoards(ctx, studentID)
	if err != nil {
		s.metrics.RecordEnrollment(ActionEnroll, OutcomeError)
		return nil, err
	}
	group, board, ok := FindBoard(boards, req.BoardID)
	if !ok || group.SubjectID != req.SubjectID {
		s.metrics.RecordEnrollment(ActionEnroll, OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exam board not found")
	}
	if group.Blocked() {
		s.metrics.RecordEnrollment(ActionEnroll, OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject has pending prerequisites")
	}

	exists, err := s.enrollments.ExistsForSubject(ctx, studentID, req.SubjectID)
	if err != nil {
		s.metrics.RecordEnrollment(ActionEnroll, OutcomeError)
		return nil, appErrors.Internal(err, "failed to check exam enrollment")
	}
	if exists {
		s.metrics.RecordEnrollment(ActionEnroll, OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject already has an exam enrollment")
	}

	if req.State != group.State {
		s.metrics.RecordStateMismatch()
		s.logger.Warn("enrollment state snapshot differs from catalog",
			zap.String("student_id", studentID),
			zap.String("subject_id", req.SubjectID),
			zap.String("asserted", string(req.State)),
			zap.String("current", string(group.State)))
	}

	enrollment := models.ExamEnrollment{
		SubjectID:   group.SubjectID,
		BoardID:     board.ID,
		SubjectName: group.SubjectName,
		BoardName:   board.Name,
		Date:        board.Date,
		State:       req.State,
	}
	if err := s.enrollments.Create(ctx, studentID, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicateEnrollment) {
			s.metrics.RecordEnrollment(ActionEnroll, OutcomeRejected)
			return nil, appErrors.Clone(appErrors.ErrConflict, "subject already has an exam enrollment")
		}
		s.metrics.RecordEnrollment(ActionEnroll, OutcomeError)
		return nil, appErrors.Internal(err, "failed to create exam enrollment")
	}

	s.metrics.RecordEnrollment(ActionEnroll, OutcomeCreated)
	_ = s.cache.InvalidateStudent(ctx, studentID)
	s.notify(ctx, studentID, "Exam enrollment confirmed",
		fmt.Sprintf("You are enrolled in %s (%s, %s).", enrollment.SubjectName, enrollment.BoardName, enrollment.Date))
	s.logger.Info("exam enrollment created",
		zap.String("student_id", studentID),
		zap.String("subject_id", enrollment.SubjectID),
		zap.String("board_id", enrollment.BoardID))
	return &enrollment, nil
}

// CancelEnrollment removes exactly the (subject, board) enrollment of the student.
func (s *ExamService) CancelEnrollment(ctx context.Context, studentID, subjectID, boardID string) error {
	subjectName := s.enrolledSubjectName(ctx, studentID, subjectID, boardID)
	if err := s.enrollments.Delete(ctx, studentID, subjectID, boardID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordEnrollment(ActionCancel, OutcomeRejected)
			return appErrors.Clone(appErrors.ErrNotFound, "exam enrollment not found")
		}
		s.metrics.RecordEnrollment(ActionCancel, OutcomeError)
		return appErrors.Internal(err, "failed to cancel exam enrollment")
	}

	s.metrics.RecordEnrollment(ActionCancel, OutcomeCanceled)
	_ = s.cache.InvalidateStudent(ctx, studentID)
	s.notify(ctx, studentID, "Exam enrollment cancelled",
		fmt.Sprintf("Your exam enrollment in %s was cancelled.", subjectName))
	s.logger.Info("exam enrollment cancelled",
		zap.String("student_id", studentID),
		zap.String("subject_id", subjectID),
		zap.String("board_id", boardID))
	return nil
}

// enrolledSubjectName names the subject for the cancellation notice, falling back to
// its id when the enrollment cannot be read.
func (s *ExamService) enrolledSubjectName(ctx context.Context, studentID, subjectID, boardID string) string {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return subjectID
	}
	for _, e := range enrollments {
		if e.Matches(subjectID, boardID) && e.SubjectName != "" {
			return e.SubjectName
		}
	}
	return subjectID
}

// notify is best effort; the enrollment change already happened.
func (s *ExamService) notify(ctx context.Context, studentID, title, message string) {
	if s.notices == nil {
		return
	}
	n := &models.Notification{StudentID: studentID, Title: title, Message: message, Type: models.NotificationExam}
	if err := s.notices.Notify(ctx, n); err != nil {
		s.logger.Warn("exam notification not stored", zap.String("student_id", studentID), zap.Error(err))
	}
}
