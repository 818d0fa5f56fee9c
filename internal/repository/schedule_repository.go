package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/JavierCodely/sistema-educativo/internal/models"
)

// ScheduleRepository reads class timetables.
type ScheduleRepository struct {
	db *sqlx.DB
}

type slotRow struct {
	ScheduleID int `db:"schedule_id"`
	models.ScheduleSlot
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListModules returns the class periods in chronological order.
func (r *ScheduleRepository) ListModules(ctx context.Context) ([]models.TimeModule, error) {
	const query = `SELECT id, start_time, end_time FROM time_modules ORDER BY start_time`
	modules := make([]models.TimeModule, 0)
	if err := r.db.SelectContext(ctx, &modules, query); err != nil {
		return nil, fmt.Errorf("list time modules: %w", err)
	}
	return modules, nil
}

// ListSubjectSchedules returns every subject timetable, optionally limited to one
// curriculum year, with its day/module slots attached.
func (r *ScheduleRepository) ListSubjectSchedules(ctx context.Context, year int) ([]models.SubjectSchedule, error) {
	query := `SELECT sc.id, s.name AS subject_name, sc.professor, s.year
FROM subject_schedules sc JOIN subjects s ON s.id = sc.subject_id`
	var args []interface{}
	if year > 0 {
		query += " WHERE s.year = $1"
		args = append(args, year)
	}
	query += " ORDER BY s.year, s.position"

	var schedules []models.SubjectSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("list subject schedules: %w", err)
	}
	if len(schedules) == 0 {
		return []models.SubjectSchedule{}, nil
	}

	ids := make([]int64, len(schedules))
	for i, s := range schedules {
		ids[i] = int64(s.ID)
	}
	const slotQuery = `SELECT schedule_id, weekday, module_id FROM schedule_slots WHERE schedule_id = ANY($1) ORDER BY weekday, module_id`
	var slots []slotRow
	if err := r.db.SelectContext(ctx, &slots, slotQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}

	bySchedule := make(map[int][]models.ScheduleSlot, len(schedules))
	for _, slot := range slots {
		bySchedule[slot.ScheduleID] = append(bySchedule[slot.ScheduleID], slot.ScheduleSlot)
	}
	for i := range schedules {
		schedules[i].Slots = bySchedule[schedules[i].ID]
		if schedules[i].Slots == nil {
			schedules[i].Slots = []models.ScheduleSlot{}
		}
	}
	return schedules, nil
}
