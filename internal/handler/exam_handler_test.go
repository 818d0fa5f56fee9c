package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
)

type fakeExamSrv struct {
	available   []models.AvailableBoard
	open        []models.AvailableBoard
	enrollments []models.ExamEnrollment
	created     *models.ExamEnrollment
	err         error

	lastStudent string
	lastRequest models.CreateExamEnrollmentRequest
	canceled    [2]string
}

func (f *fakeExamSrv) AvailableBoards(_ context.Context, studentID string) ([]models.AvailableBoard, error) {
	f.lastStudent = studentID
	return f.available, f.err
}

func (f *fakeExamSrv) OpenBoards(_ context.Context, studentID string) ([]models.AvailableBoard, error) {
	f.lastStudent = studentID
	return f.open, f.err
}

func (f *fakeExamSrv) Enrollments(_ context.Context, studentID string) ([]models.ExamEnrollment, error) {
	f.lastStudent = studentID
	return f.enrollments, f.err
}

func (f *fakeExamSrv) CreateEnrollment(_ context.Context, studentID string, req models.CreateExamEnrollmentRequest) (*models.ExamEnrollment, error) {
	f.lastStudent = studentID
	f.lastRequest = req
	return f.created, f.err
}

func (f *fakeExamSrv) CancelEnrollment(_ context.Context, studentID, subjectID, boardID string) error {
	f.lastStudent = studentID
	f.canceled = [2]string{subjectID, boardID}
	return f.err
}

func sampleBoards() []models.AvailableBoard {
	return []models.AvailableBoard{{
		SubjectID:   "6",
		SubjectName: "Programación II",
		State:       models.StateRegular,
		Boards: []models.ExamBoard{
			{ID: "m1-c", Name: "Mesa 1", Date: "2025-05-12"},
			{ID: "m2-c", Name: "Mesa 2", Date: "2025-07-21"},
		},
	}}
}

func TestExamHandlerAvailable(t *testing.T) {
	srv := &fakeExamSrv{available: sampleBoards()}
	handler := NewExamHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/exam-boards/available", nil)
	asStudent(c, "stu-1")

	handler.Available(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-1", srv.lastStudent)
	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, 1, envelope.Meta["count"])
	var boards []models.AvailableBoard
	require.NoError(t, json.Unmarshal(envelope.Data, &boards))
	require.Len(t, boards, 1)
	assert.Equal(t, "2025-05-12", boards[0].Boards[0].Date)
}

func TestExamHandlerOpenUsesDirectoryView(t *testing.T) {
	srv := &fakeExamSrv{available: sampleBoards(), open: []models.AvailableBoard{}}
	handler := NewExamHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/exam-boards/open", nil)
	asStudent(c, "stu-1")

	handler.Open(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(decodeEnvelope(t, rec).Data))
}

func TestExamHandlerBoardsRequireStudent(t *testing.T) {
	handler := NewExamHandler(&fakeExamSrv{})
	c, rec := newTestContext(http.MethodGet, "/exam-boards/open", nil)

	handler.Open(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExamHandlerEnrollments(t *testing.T) {
	srv := &fakeExamSrv{enrollments: []models.ExamEnrollment{{SubjectID: "6", BoardID: "m1-c", State: models.StateRegular}}}
	handler := NewExamHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/exam-enrollments", nil)
	asStudent(c, "stu-1")

	handler.Enrollments(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var enrollments []models.ExamEnrollment
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &enrollments))
	require.Len(t, enrollments, 1)
	assert.True(t, enrollments[0].Matches("6", "m1-c"))
}

func TestExamHandlerCreate(t *testing.T) {
	srv := &fakeExamSrv{created: &models.ExamEnrollment{
		SubjectID:   "6",
		BoardID:     "m1-c",
		SubjectName: "Programación II",
		BoardName:   "Mesa 1",
		Date:        "2025-05-12",
		State:       models.StateRegular,
	}}
	handler := NewExamHandler(srv)
	c, rec := newTestContext(http.MethodPost, "/exam-enrollments",
		[]byte(`{"subject_id":"6","board_id":"m1-c","state":"Regular"}`))
	asStudent(c, "stu-1")

	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.CreateExamEnrollmentRequest{SubjectID: "6", BoardID: "m1-c", State: models.StateRegular}, srv.lastRequest)
	var enrollment models.ExamEnrollment
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &enrollment))
	assert.Equal(t, "2025-05-12", enrollment.Date)
}

func TestExamHandlerCreateRejectsUnknownState(t *testing.T) {
	srv := &fakeExamSrv{}
	handler := NewExamHandler(srv)
	c, rec := newTestContext(http.MethodPost, "/exam-enrollments",
		[]byte(`{"subject_id":"6","board_id":"m1-c","state":"Graduated"}`))
	asStudent(c, "stu-1")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, srv.lastStudent)
}

func TestExamHandlerCreateConflict(t *testing.T) {
	srv := &fakeExamSrv{err: appErrors.Clone(appErrors.ErrConflict, "subject already has an enrollment")}
	handler := NewExamHandler(srv)
	c, rec := newTestContext(http.MethodPost, "/exam-enrollments",
		[]byte(`{"subject_id":"6","board_id":"m2-c","state":"REGULAR"}`))
	asStudent(c, "stu-1")

	handler.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, appErrors.ErrConflict.Code, decodeEnvelope(t, rec).Error.Code)
}

func TestExamHandlerCancel(t *testing.T) {
	srv := &fakeExamSrv{}
	handler := NewExamHandler(srv)
	c, rec := newTestContext(http.MethodDelete, "/exam-enrollments/6/m1-c", nil)
	c.Params = gin.Params{{Key: "subjectId", Value: "6"}, {Key: "boardId", Value: "m1-c"}}
	asStudent(c, "stu-1")

	handler.Cancel(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, [2]string{"6", "m1-c"}, srv.canceled)
}

func TestExamHandlerCancelNotFound(t *testing.T) {
	srv := &fakeExamSrv{err: appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")}
	handler := NewExamHandler(srv)
	c, rec := newTestContext(http.MethodDelete, "/exam-enrollments/6/m9", nil)
	c.Params = gin.Params{{Key: "subjectId", Value: "6"}, {Key: "boardId", Value: "m9"}}
	asStudent(c, "stu-1")

	handler.Cancel(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
