package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierCodely/sistema-educativo/internal/models"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryListModules(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, start_time, end_time FROM time_modules ORDER BY start_time")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_time", "end_time"}).
			AddRow(1, "18:30", "19:10").
			AddRow(2, "19:10", "19:50"))

	modules, err := repo.ListModules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.TimeModule{{ID: 1, StartTime: "18:30", EndTime: "19:10"}, {ID: 2, StartTime: "19:10", EndTime: "19:50"}}, modules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListSubjectSchedulesAttachesSlots(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM subject_schedules sc JOIN subjects s ON s.id = sc.subject_id WHERE s.year = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "subject_name", "professor", "year"}).
			AddRow(1, "Redes", "Olmedo", 1).
			AddRow(6, "Comunicación", "Cuenca", 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_slots WHERE schedule_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "weekday", "module_id"}).
			AddRow(1, 4, 4).
			AddRow(1, 5, 1))

	schedules, err := repo.ListSubjectSchedules(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, []models.ScheduleSlot{{Day: 4, ModuleID: 4}, {Day: 5, ModuleID: 1}}, schedules[0].Slots)
	assert.Equal(t, []models.ScheduleSlot{}, schedules[1].Slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}
