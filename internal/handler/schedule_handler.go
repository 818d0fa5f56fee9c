package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	"github.com/JavierCodely/sistema-educativo/internal/service"
	"github.com/JavierCodely/sistema-educativo/pkg/response"
)

type scheduleService interface {
	Schedules(ctx context.Context, year int) ([]models.SubjectSchedule, error)
	Weekly(ctx context.Context, year int) ([]models.WeeklyRow, error)
	Export(ctx context.Context, year int, format string) (*service.ScheduleFile, error)
}

// ScheduleHandler serves class timetables.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// List godoc
// @Summary Class schedules per subject
// @Tags Schedules
// @Produce json
// @Param year query int false "Curriculum year"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	schedules, err := h.service.Schedules(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// Weekly godoc
// @Summary Weekly grid by time module and weekday
// @Tags Schedules
// @Produce json
// @Param year query int false "Curriculum year"
// @Success 200 {object} response.Envelope
// @Router /schedules/weekly [get]
func (h *ScheduleHandler) Weekly(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.service.Weekly(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Export godoc
// @Summary Download the timetable
// @Tags Schedules
// @Produce application/pdf
// @Produce text/csv
// @Param format query string false "pdf or csv" default(pdf)
// @Param year query int false "Curriculum year"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /schedules/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Export(c.Request.Context(), year, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
