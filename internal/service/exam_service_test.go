package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	"github.com/JavierCodely/sistema-educativo/internal/repository"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
)

type mockBoardRepo struct {
	boards []models.AvailableBoard
	err    error
	calls  int
}

func (m *mockBoardRepo) ListOpen(ctx context.Context, studentID string) ([]models.AvailableBoard, error) {
	m.calls++
	return m.boards, m.err
}

type mockEnrollmentRepo struct {
	enrollments []models.ExamEnrollment
	created     []models.ExamEnrollment
	createErr   error
	deleteErr   error
	deleted     [][2]string
}

func (m *mockEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.ExamEnrollment, error) {
	return m.enrollments, nil
}

func (m *mockEnrollmentRepo) ExistsForSubject(ctx context.Context, studentID, subjectID string) (bool, error) {
	for _, e := range m.enrollments {
		if e.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, studentID string, enrollment models.ExamEnrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, enrollment)
	m.enrollments = append(m.enrollments, enrollment)
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, studentID, subjectID, boardID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, [2]string{subjectID, boardID})
	return nil
}

type recordingNotices struct {
	items []*models.Notification
}

func (r *recordingNotices) Notify(ctx context.Context, n *models.Notification) error {
	r.items = append(r.items, n)
	return nil
}

func newExamServiceFixture() (*ExamService, *mockBoardRepo, *mockEnrollmentRepo, *MetricsService) {
	boards := &mockBoardRepo{boards: boardsFixture()}
	enrollments := &mockEnrollmentRepo{}
	metrics := NewMetricsService()
	return NewExamService(boards, enrollments, nil, metrics, nil, nil), boards, enrollments, metrics
}

func TestExamServiceCreateEnrollment(t *testing.T) {
	svc, _, repo, metrics := newExamServiceFixture()
	notices := &recordingNotices{}
	svc.WithNotices(notices)

	created, err := svc.CreateEnrollment(context.Background(), "s1", models.CreateExamEnrollmentRequest{SubjectID: "6", BoardID: "m1-c", State: models.StateWithdrawn})
	require.NoError(t, err)
	assert.Equal(t, "2025-05-12", created.Date)
	assert.Equal(t, "Comunicación", created.SubjectName)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, 1.0, counterValue(t, metrics, "exam_enrollment_operations_total", map[string]string{"outcome": "created"}))

	require.Len(t, notices.items, 1)
	assert.Equal(t, models.NotificationExam, notices.items[0].Type)
	assert.Equal(t, "s1", notices.items[0].StudentID)
}

func TestExamServiceCreateEnrollmentValidation(t *testing.T) {
	svc, _, repo, _ := newExamServiceFixture()

	_, err := svc.CreateEnrollment(context.Background(), "s1", models.CreateExamEnrollmentRequest{SubjectID: "6"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.CreateEnrollment(context.Background(), "s1", models.CreateExamEnrollmentRequest{SubjectID: "6", BoardID: "m1-c", State: "SOMETHING"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, repo.created)
}

func TestExamServiceCreateEnrollmentUnknownBoard(t *testing.T) {
	svc, _, repo, _ := newExamServiceFixture()

	_, err := svc.CreateEnrollment(context.Background(), "s1", models.CreateExamEnrollmentRequest{SubjectID: "6", BoardID: "nope", State: models.StateWithdrawn})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.CreateEnrollment(context.Background(), "s1", models.CreateExamEnrollmentRequest{SubjectID: "14", BoardID: "m1-c", State: models.StateRegular})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, repo.created)
}

func TestExamServiceCreateEnrollmentBlockedByPrerequisite(t *testing.T) {
	boards := &mockBoardRepo{boards: append(boardsFixture(), models.AvailableBoard{
		SubjectID:   "15",
		SubjectName: "Derecho y Legislación Laboral",
		State:       models.StateMissingPrerequisite,
		Boards:      []models.ExamBoard{{ID: "m1-dll", Name: "Mesa 1", Date: "2025-05-22"}},
	})}
	repo := &mockEnrollmentRepo{}
	metrics := NewMetricsService()
	svc := NewExamService(boards, repo, nil, metrics, nil, nil)

	_, err := svc.CreateEnrollment(context.Background(), "s1", models.CreateExamEnrollmentRequest{SubjectID: "15", BoardID: "m1-dll", State: models.StateMissingPrerequisite})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "subject has pending prerequisites", appErrors.FromError(err).Message)
	assert.Empty(t, repo.created)
	assert.Equal(t, 1.0, counterValue(t, metrics, "exam_enrollment_operations_total", map[string]string{"outcome": "rejected"}))
}

func TestExamServiceCreateEnrollmentConflict(t *testing.T) {
	svc, _, repo, _ := newExamServiceFixture()
	repo.enrollments = []models.ExamEnrollment{{SubjectID: "6", BoardID: "m1-c"}}

	_, err := svc.CreateEnrollment(context.Background(), "s1", models.CreateExamEnrollmentRequest{SubjectID: "6", BoardID: "m2-c", State: models.StateWithdrawn})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Empty(t, repo.created)
}

func TestExamServiceCreateEnrollmentRaceMapsToConflict(t *testing.T) {
	svc, _, repo, _ := newExamServiceFixture()
	repo.createErr = repository.ErrDuplicateEnrollment

	_, err := svc.CreateEnrollment(context.Background(), "s1", models.CreateExamEnrollmentRequest{SubjectID: "6", BoardID: "m2-c", State: models.StateWithdrawn})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestExamServiceStoresAssertedStateAndWarnsOnMismatch(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	boards := &mockBoardRepo{boards: boardsFixture()}
	repo := &mockEnrollmentRepo{}
	metrics := NewMetricsService()
	svc := NewExamService(boards, repo, nil, metrics, nil, zap.New(core))

	created, err := svc.CreateEnrollment(context.Background(), "s1", models.CreateExamEnrollmentRequest{SubjectID: "6", BoardID: "m1-c", State: models.StateRegular})
	require.NoError(t, err)
	assert.Equal(t, models.StateRegular, created.State)
	assert.Equal(t, models.StateRegular, repo.created[0].State)
	assert.Equal(t, 1, logs.FilterMessage("enrollment state snapshot differs from catalog").Len())
	assert.Equal(t, 1.0, counterValue(t, metrics, "exam_enrollment_state_mismatch_total", nil))
}

func TestExamServiceOpenBoardsExcludesEnrolledSubjects(t *testing.T) {
	svc, _, repo, _ := newExamServiceFixture()
	repo.enrollments = []models.ExamEnrollment{{SubjectID: "6", BoardID: "m1-c"}}

	open, err := svc.OpenBoards(context.Background(), "s1")
	require.NoError(t, err)
	for _, g := range open {
		assert.NotEqual(t, "6", g.SubjectID)
	}
}

func TestExamServiceCachesBoardsAndInvalidatesOnChange(t *testing.T) {
	boards := &mockBoardRepo{boards: boardsFixture()}
	repo := &mockEnrollmentRepo{}
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, 0, nil, true)
	svc := NewExamService(boards, repo, cache, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.AvailableBoards(ctx, "s1")
	require.NoError(t, err)
	_, err = svc.AvailableBoards(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, boards.calls)

	require.NoError(t, svc.CancelEnrollment(ctx, "s1", "6", "m1-c"))
	assert.ElementsMatch(t, []string{SubjectsCacheKey("s1"), BoardsCacheKey("s1")}, cacheRepo.deleted)

	_, err = svc.AvailableBoards(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, boards.calls)
}

func TestExamServiceCancelEnrollment(t *testing.T) {
	svc, _, repo, _ := newExamServiceFixture()
	notices := &recordingNotices{}
	svc.WithNotices(notices)
	repo.enrollments = []models.ExamEnrollment{{SubjectID: "6", BoardID: "m1-c", SubjectName: "Comunicación"}}

	require.NoError(t, svc.CancelEnrollment(context.Background(), "s1", "6", "m1-c"))
	assert.Equal(t, [][2]string{{"6", "m1-c"}}, repo.deleted)
	require.Len(t, notices.items, 1)
	assert.Equal(t, "Your exam enrollment in Comunicación was cancelled.", notices.items[0].Message)

	repo.deleteErr = sql.ErrNoRows
	assert.ErrorIs(t, svc.CancelEnrollment(context.Background(), "s1", "6", "m1-c"), appErrors.ErrNotFound)

	repo.deleteErr = errors.New("db down")
	assert.ErrorIs(t, svc.CancelEnrollment(context.Background(), "s1", "6", "m1-c"), appErrors.ErrInternal)
}

func TestExamServiceBoardListingFailure(t *testing.T) {
	svc, boards, _, _ := newExamServiceFixture()
	boards.err = errors.New("db down")

	_, err := svc.OpenBoards(context.Background(), "s1")
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
