package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JavierCodely/sistema-educativo/internal/middleware"
	"github.com/JavierCodely/sistema-educativo/internal/models"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
	"github.com/JavierCodely/sistema-educativo/pkg/response"
)

type examService interface {
	AvailableBoards(ctx context.Context, studentID string) ([]models.AvailableBoard, error)
	OpenBoards(ctx context.Context, studentID string) ([]models.AvailableBoard, error)
	Enrollments(ctx context.Context, studentID string) ([]models.ExamEnrollment, error)
	CreateEnrollment(ctx context.Context, studentID string, req models.CreateExamEnrollmentRequest) (*models.ExamEnrollment, error)
	CancelEnrollment(ctx context.Context, studentID, subjectID, boardID string) error
}

// ExamHandler exposes exam boards and exam enrollments.
type ExamHandler struct {
	service examService
}

// NewExamHandler constructs the handler.
func NewExamHandler(service examService) *ExamHandler {
	return &ExamHandler{service: service}
}

// Available godoc
// @Summary Open exam boards grouped by subject
// @Tags Exams
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /exam-boards/available [get]
func (h *ExamHandler) Available(c *gin.Context) {
	h.listBoards(c, h.service.AvailableBoards)
}

// Open godoc
// @Summary Boards the student can still enroll in
// @Description Available boards minus the subjects already enrolled.
// @Tags Exams
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /exam-boards/open [get]
func (h *ExamHandler) Open(c *gin.Context) {
	h.listBoards(c, h.service.OpenBoards)
}

func (h *ExamHandler) listBoards(c *gin.Context, load func(context.Context, string) ([]models.AvailableBoard, error)) {
	studentID, err := studentIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	boards, err := load(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(boards))
	response.JSON(c, http.StatusOK, boards, nil, middleware.ResponseMeta(c))
}

// Enrollments godoc
// @Summary Current exam enrollments
// @Tags Exams
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /exam-enrollments [get]
func (h *ExamHandler) Enrollments(c *gin.Context) {
	studentID, err := studentIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollments, err := h.service.Enrollments(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// Create godoc
// @Summary Enroll in an exam board
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body models.CreateExamEnrollmentRequest true "Board selection with the subject state shown to the student"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exam-enrollments [post]
func (h *ExamHandler) Create(c *gin.Context) {
	studentID, err := studentIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CreateExamEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.service.CreateEnrollment(c.Request.Context(), studentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Cancel godoc
// @Summary Cancel an exam enrollment
// @Tags Exams
// @Param subjectId path string true "Subject ID"
// @Param boardId path string true "Board ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /exam-enrollments/{subjectId}/{boardId} [delete]
func (h *ExamHandler) Cancel(c *gin.Context) {
	studentID, err := studentIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.CancelEnrollment(c.Request.Context(), studentID, c.Param("subjectId"), c.Param("boardId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
