package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	"github.com/JavierCodely/sistema-educativo/internal/service"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
)

type fakeScheduleSrv struct {
	schedules  []models.SubjectSchedule
	rows       []models.WeeklyRow
	file       *service.ScheduleFile
	err        error
	lastYear   int
	lastFormat string
}

func (f *fakeScheduleSrv) Schedules(_ context.Context, year int) ([]models.SubjectSchedule, error) {
	f.lastYear = year
	return f.schedules, f.err
}

func (f *fakeScheduleSrv) Weekly(_ context.Context, year int) ([]models.WeeklyRow, error) {
	f.lastYear = year
	return f.rows, f.err
}

func (f *fakeScheduleSrv) Export(_ context.Context, year int, format string) (*service.ScheduleFile, error) {
	f.lastYear = year
	f.lastFormat = format
	return f.file, f.err
}

func TestScheduleHandlerList(t *testing.T) {
	srv := &fakeScheduleSrv{schedules: []models.SubjectSchedule{{ID: 1, Subject: "Base de Datos", Year: 2}}}
	handler := NewScheduleHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/schedules?year=2", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, srv.lastYear)
}

func TestScheduleHandlerWeekly(t *testing.T) {
	srv := &fakeScheduleSrv{rows: []models.WeeklyRow{{
		Module: models.TimeModule{ID: 1, StartTime: "08:00", EndTime: "08:40"},
		Days:   map[models.Weekday][]models.WeeklyCell{1: {{Subject: "Base de Datos"}}},
	}}}
	handler := NewScheduleHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/schedules/weekly", nil)

	handler.Weekly(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, srv.lastYear)
	var rows []models.WeeklyRow
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Base de Datos", rows[0].Days[1][0].Subject)
}

func TestScheduleHandlerRejectsBadYear(t *testing.T) {
	srv := &fakeScheduleSrv{}
	handler := NewScheduleHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/schedules/weekly?year=0", nil)

	handler.Weekly(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleHandlerExport(t *testing.T) {
	srv := &fakeScheduleSrv{file: &service.ScheduleFile{Filename: "horarios-1.csv", ContentType: "text/csv", Body: []byte("Day,Time\n")}}
	handler := NewScheduleHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/schedules/export?format=csv&year=1", nil)

	handler.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.lastFormat)
	assert.Equal(t, 1, srv.lastYear)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="horarios-1.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Day,Time\n", rec.Body.String())
}

func TestScheduleHandlerExportErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "bad format", err: appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv"), status: http.StatusBadRequest},
		{name: "render failure", err: appErrors.Internal(errors.New("font"), "failed to render schedule pdf"), status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewScheduleHandler(&fakeScheduleSrv{err: tc.err})
			c, rec := newTestContext(http.MethodGet, "/schedules/export?format=xls", nil)

			handler.Export(c)

			assert.Equal(t, tc.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "font")
		})
	}
}
