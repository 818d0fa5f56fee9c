package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JavierCodely/sistema-educativo/internal/middleware"
	"github.com/JavierCodely/sistema-educativo/internal/models"
	"github.com/JavierCodely/sistema-educativo/pkg/response"
)

type subjectService interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	Get(ctx context.Context, studentID, id string) (*models.SubjectDetail, error)
	Cursability(ctx context.Context, studentID, id string) (*models.CursabilityResult, error)
	StudyPlan(ctx context.Context, studentID string) ([]models.StudyPlanYear, error)
}

// SubjectHandler serves the student's subject catalog.
type SubjectHandler struct {
	service subjectService
}

// NewSubjectHandler constructs the handler.
func NewSubjectHandler(service subjectService) *SubjectHandler {
	return &SubjectHandler{service: service}
}

// List godoc
// @Summary List subjects with the student's academic state
// @Tags Subjects
// @Produce json
// @Param year query int false "Curriculum year"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	studentID, err := studentIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	year, err := yearQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	subjects, err := h.service.List(c.Request.Context(), models.SubjectFilter{StudentID: studentID, Year: year})
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(subjects))
	response.JSON(c, http.StatusOK, subjects, nil, middleware.ResponseMeta(c))
}

// Get godoc
// @Summary Subject detail with resolved prerequisites
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	studentID, err := studentIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.service.Get(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Cursability godoc
// @Summary Whether a subject can be taken again
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id}/cursability [get]
func (h *SubjectHandler) Cursability(c *gin.Context) {
	studentID, err := studentIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Cursability(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// StudyPlan godoc
// @Summary Subjects grouped by curriculum year
// @Tags Subjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /study-plan [get]
func (h *SubjectHandler) StudyPlan(c *gin.Context) {
	studentID, err := studentIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	plan, err := h.service.StudyPlan(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}
