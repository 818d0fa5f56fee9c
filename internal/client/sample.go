package client

import (
	"time"

	"github.com/JavierCodely/sistema-educativo/internal/models"
)

// Seed is the initial content of a MemoryBackend.
type Seed struct {
	Subjects      []models.Subject
	Boards        []models.AvailableBoard
	Enrollments   []models.ExamEnrollment
	Notifications []models.Notification
}

// SampleSeed returns the demo catalog of the technical degree: three years of
// subjects, four subjects with open exam boards and one existing enrollment.
func SampleSeed() Seed {
	return Seed{
		Subjects:      sampleSubjects(),
		Boards:        sampleBoards(),
		Enrollments:   []models.ExamEnrollment{{SubjectID: "6", BoardID: "m1-c", SubjectName: "Comunicación", BoardName: "Mesa 1", Date: "2025-05-12", State: models.StateWithdrawn}},
		Notifications: sampleNotifications(),
	}
}

func subject(id, name, code string, year int, state models.AcademicState, grade float64, prereqs ...string) models.Subject {
	return models.Subject{
		ID:            id,
		Name:          name,
		Code:          code,
		Year:          year,
		State:         state,
		Prerequisites: prereqs,
		Grades:        []models.Grade{{ID: id, Value: grade}},
	}
}

func sampleSubjects() []models.Subject {
	return []models.Subject{
		subject("1", "Redes", "RED1", 1, models.StatePromoted, 8),
		subject("2", "Matemática", "MAT", 1, models.StatePromoted, 8),
		subject("3", "Física Aplicada", "FIS", 1, models.StatePromoted, 8),
		subject("4", "Inglés I", "ING1", 1, models.StatePromoted, 8),
		subject("5", "Práctica Profesionalizante I", "PP1", 1, models.StatePromoted, 8),
		subject("6", "Comunicación", "COM", 1, models.StateWithdrawn, 7),
		subject("7", "Teoría de los Sistemas", "TS", 1, models.StateWithdrawn, 0),

		subject("8", "Teoría de la Información", "TI", 2, models.StatePromoted, 8),
		subject("9", "Algoritmos y Estructuras de Datos", "AED", 2, models.StatePromoted, 8),
		subject("10", "Lógica y Programación II", "LP2", 2, models.StatePromoted, 8),
		subject("11", "Base de Datos", "BD", 2, models.StatePromoted, 8),
		subject("12", "Estadística", "EST", 2, models.StatePromoted, 8),
		subject("13", "Práctica Profesionalizante II", "PP2", 2, models.StatePromoted, 8),
		subject("14", "Inglés II", "ING2", 2, models.StateRegular, 6, "4"),
		subject("15", "Derecho y Legislación Laboral", "DLL", 2, models.StateMissingPrerequisite, 8, "6"),

		subject("16", "Inglés III", "ING3", 3, models.StateInProgress, 0, "14"),
		subject("17", "Integridad y Migración de Datos", "IMD", 3, models.StateInProgress, 0, "11"),
		subject("18", "Inteligencia Artificial", "IA", 3, models.StateInProgress, 0, "9", "10"),
		subject("19", "Administración de Sistemas Operativos y Redes", "ASOR", 3, models.StateInProgress, 0, "1"),
		subject("20", "Sistemas Distribuidos", "SD", 3, models.StateInProgress, 0),
		subject("21", "Práctica Profesionalizante III", "PP3", 3, models.StateInProgress, 0, "13"),
	}
}

func sampleBoards() []models.AvailableBoard {
	return []models.AvailableBoard{
		{SubjectID: "6", SubjectName: "Comunicación", State: models.StateWithdrawn, Boards: []models.ExamBoard{
			{ID: "m1-c", Name: "Mesa 1", Date: "2025-05-12"},
			{ID: "m2-c", Name: "Mesa 2", Date: "2025-05-26"},
		}},
		{SubjectID: "7", SubjectName: "Teoría de los Sistemas", State: models.StateWithdrawn, Boards: []models.ExamBoard{
			{ID: "m1-ts", Name: "Mesa 1", Date: "2025-05-15"},
			{ID: "m2-ts", Name: "Mesa 2", Date: "2025-05-29"},
		}},
		{SubjectID: "14", SubjectName: "Inglés II", State: models.StateRegular, Boards: []models.ExamBoard{
			{ID: "m1-ing2", Name: "Mesa 1", Date: "2025-05-20"},
			{ID: "m2-ing2", Name: "Mesa 2", Date: "2025-06-03"},
		}},
		{SubjectID: "15", SubjectName: "Derecho y Legislación Laboral", State: models.StateMissingPrerequisite, Boards: []models.ExamBoard{
			{ID: "m1-dll", Name: "Mesa 1", Date: "2025-05-22"},
			{ID: "m2-dll", Name: "Mesa 2", Date: "2025-06-05"},
		}},
	}
}

func sampleNotifications() []models.Notification {
	grade := func(v float64) *float64 { return &v }
	link := func(v string) *string { return &v }
	at := func(raw string) time.Time {
		t, _ := time.Parse("2006-01-02T15:04:05", raw)
		return t
	}

	return []models.Notification{
		{
			ID: "1", Title: "Nota de examen registrada", Type: models.NotificationExam, CreatedAt: at("2025-04-26T10:30:00"),
			Message: "Se ha registrado una nueva nota en tu examen de Comunicación",
			Details: &models.NotificationDetails{Subject: "Comunicación", Professor: "Cuenca", Grade: grade(7)},
		},
		{
			ID: "2", Title: "Nota de examen registrada", Type: models.NotificationExam, CreatedAt: at("2025-04-25T14:15:00"), Read: true,
			Message: "Se ha registrado una nueva nota en tu examen de Inglés II",
			Details: &models.NotificationDetails{Subject: "Inglés II", Professor: "Errasti", Grade: grade(8)},
		},
		{
			ID: "3", Title: "Inscripción Plan Progresar", Type: models.NotificationScholarship, CreatedAt: at("2025-04-23T09:00:00"),
			Message: "Ya están abiertas las inscripciones para el Plan Progresar.",
			Link:    link("/becas/progresar"),
		},
		{
			ID: "4", Title: "Plan Potenciar Trabajo", Type: models.NotificationScholarship, CreatedAt: at("2025-04-20T16:45:00"),
			Message: "Se abre la convocatoria para inscribirse al Plan Potenciar Trabajo.",
			Link:    link("/becas/potenciar-trabajo"),
		},
		{
			ID: "5", Title: "Recordatorio de inscripción a finales", Type: models.NotificationAcademic, CreatedAt: at("2025-04-18T11:20:00"), Read: true,
			Message: "La fecha límite para inscribirte a los exámenes finales es el 15 de mayo.",
		},
	}
}
