package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
	"github.com/JavierCodely/sistema-educativo/pkg/export"
)

// Supported schedule export formats.
const (
	ExportFormatPDF = "pdf"
	ExportFormatCSV = "csv"
)

// afternoonStart splits the PDF export into a morning and an afternoon/evening section.
const afternoonStart = "13:00"

var scheduleHeaders = []string{"Day", "Time", "Subject", "Professor"}

type scheduleRepository interface {
	ListModules(ctx context.Context) ([]models.TimeModule, error)
	ListSubjectSchedules(ctx context.Context, year int) ([]models.SubjectSchedule, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type sectionRenderer interface {
	RenderSections(title string, sections []export.Section) ([]byte, error)
}

// ScheduleFile is a rendered timetable ready to download.
type ScheduleFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ScheduleService builds class timetables and their exports.
type ScheduleService struct {
	repo   scheduleRepository
	csv    csvRenderer
	pdf    sectionRenderer
	logger *zap.Logger
}

// NewScheduleService constructs the service. Nil renderers fall back to the export package defaults.
func NewScheduleService(repo scheduleRepository, csv csvRenderer, pdf sectionRenderer, logger *zap.Logger) *ScheduleService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewLandscapePDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, csv: csv, pdf: pdf, logger: logger}
}

// Schedules returns the subject timetables of a year, or all years when year is zero.
func (s *ScheduleService) Schedules(ctx context.Context, year int) ([]models.SubjectSchedule, error) {
	schedules, err := s.repo.ListSubjectSchedules(ctx, year)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list schedules")
	}
	return schedules, nil
}

// Weekly lays the timetables out as one row per time module with a cell list per weekday.
func (s *ScheduleService) Weekly(ctx context.Context, year int) ([]models.WeeklyRow, error) {
	modules, schedules, err := s.load(ctx, year)
	if err != nil {
		return nil, err
	}

	rows := make([]models.WeeklyRow, len(modules))
	index := make(map[int]int, len(modules))
	for i, m := range modules {
		days := make(map[models.Weekday][]models.WeeklyCell, 5)
		for _, d := range models.Weekdays() {
			days[d] = []models.WeeklyCell{}
		}
		rows[i] = models.WeeklyRow{Module: m, Days: days}
		index[m.ID] = i
	}

	for _, sc := range schedules {
		for _, slot := range sc.Slots {
			i, ok := index[slot.ModuleID]
			if !ok || !slot.Day.Valid() {
				s.logger.Warn("schedule slot outside the grid",
					zap.Int("schedule_id", sc.ID),
					zap.Int("weekday", int(slot.Day)),
					zap.Int("module_id", slot.ModuleID))
				continue
			}
			rows[i].Days[slot.Day] = append(rows[i].Days[slot.Day], models.WeeklyCell{Subject: sc.Subject, Professor: sc.Professor, Year: sc.Year})
		}
	}
	return rows, nil
}

// Export renders the timetable as PDF or CSV.
func (s *ScheduleService) Export(ctx context.Context, year int, format string) (*ScheduleFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatPDF
	}
	if format != ExportFormatPDF && format != ExportFormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}

	modules, schedules, err := s.load(ctx, year)
	if err != nil {
		return nil, err
	}
	rows := exportRows(modules, schedules)

	name := "horarios"
	if year > 0 {
		name = fmt.Sprintf("horarios-%d", year)
	}

	if format == ExportFormatCSV {
		body, err := s.csv.Render(toDataset(rows))
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render schedule csv")
		}
		return &ScheduleFile{Filename: name + ".csv", ContentType: "text/csv", Body: body}, nil
	}

	var morning, later []models.ScheduleExportRow
	for _, row := range rows {
		if row.Module.StartTime < afternoonStart {
			morning = append(morning, row)
		} else {
			later = append(later, row)
		}
	}
	body, err := s.pdf.RenderSections("Class schedule", []export.Section{
		{Heading: "Morning", Data: toDataset(morning)},
		{Heading: "Afternoon and evening", Data: toDataset(later)},
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render schedule pdf")
	}
	return &ScheduleFile{Filename: name + ".pdf", ContentType: "application/pdf", Body: body}, nil
}

func (s *ScheduleService) load(ctx context.Context, year int) ([]models.TimeModule, []models.SubjectSchedule, error) {
	modules, err := s.repo.ListModules(ctx)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list time modules")
	}
	schedules, err := s.repo.ListSubjectSchedules(ctx, year)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list schedules")
	}
	return modules, schedules, nil
}

// exportRows flattens the timetable ordered by weekday, then module start time.
func exportRows(modules []models.TimeModule, schedules []models.SubjectSchedule) []models.ScheduleExportRow {
	byID := make(map[int]models.TimeModule, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}

	rows := make([]models.ScheduleExportRow, 0)
	for _, sc := range schedules {
		for _, slot := range sc.Slots {
			m, ok := byID[slot.ModuleID]
			if !ok || !slot.Day.Valid() {
				continue
			}
			rows = append(rows, models.ScheduleExportRow{Day: slot.Day, Module: m, Subject: sc.Subject, Professor: sc.Professor})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Day != rows[j].Day {
			return rows[i].Day < rows[j].Day
		}
		return rows[i].Module.StartTime < rows[j].Module.StartTime
	})
	return rows
}

func toDataset(rows []models.ScheduleExportRow) export.Dataset {
	data := export.Dataset{Headers: scheduleHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Day":       row.Day.Name(),
			"Time":      row.Module.Span(),
			"Subject":   row.Subject,
			"Professor": row.Professor,
		})
	}
	return data
}
