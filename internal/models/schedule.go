package models

// Weekday is a teaching day, 1 (Monday) through 5 (Friday).
type Weekday int

var weekdayNames = map[Weekday]string{
	1: "Lunes",
	2: "Martes",
	3: "Miércoles",
	4: "Jueves",
	5: "Viernes",
}

// Weekdays returns the teaching days in order.
func Weekdays() []Weekday {
	return []Weekday{1, 2, 3, 4, 5}
}

// Name returns the display name of the day.
func (d Weekday) Name() string {
	return weekdayNames[d]
}

// Valid reports whether d is a teaching day.
func (d Weekday) Valid() bool {
	_, ok := weekdayNames[d]
	return ok
}

// TimeModule is one class period.
type TimeModule struct {
	ID        int    `db:"id" json:"id"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// Span renders the module as "HH:MM - HH:MM".
func (m TimeModule) Span() string {
	return m.StartTime + " - " + m.EndTime
}

// ScheduleSlot assigns a subject to a module on a day.
type ScheduleSlot struct {
	Day      Weekday `db:"weekday" json:"day"`
	ModuleID int     `db:"module_id" json:"module_id"`
}

// SubjectSchedule is the weekly timetable of one subject.
type SubjectSchedule struct {
	ID        int            `db:"id" json:"id"`
	Subject   string         `db:"subject_name" json:"subject"`
	Professor string         `db:"professor" json:"professor"`
	Year      int            `db:"year" json:"year"`
	Slots     []ScheduleSlot `db:"-" json:"slots"`
}

// WeeklyCell is one subject placed in the weekly grid.
type WeeklyCell struct {
	Subject   string `json:"subject"`
	Professor string `json:"professor"`
	Year      int    `json:"year"`
}

// WeeklyRow is the grid row of a time module, keyed by weekday.
type WeeklyRow struct {
	Module TimeModule              `json:"module"`
	Days   map[Weekday][]WeeklyCell `json:"days"`
}

// ScheduleExportRow is the flattened form used by PDF and CSV exports.
type ScheduleExportRow struct {
	Day       Weekday
	Module    TimeModule
	Subject   string
	Professor string
}
