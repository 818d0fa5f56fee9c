package models

import "time"

// NotificationType categorises portal notices.
type NotificationType string

const (
	NotificationAcademic       NotificationType = "ACADEMICO"
	NotificationAdministrative NotificationType = "ADMINISTRATIVO"
	NotificationScholarship    NotificationType = "BECA"
	NotificationExam           NotificationType = "EXAMEN"
)

// NotificationDetails holds optional structured context.
type NotificationDetails struct {
	Subject   string   `json:"subject,omitempty"`
	Professor string   `json:"professor,omitempty"`
	Grade     *float64 `json:"grade,omitempty"`
}

// Notification is a message addressed to one student.
type Notification struct {
	ID        string               `db:"id" json:"id"`
	StudentID string               `db:"student_id" json:"-"`
	Title     string               `db:"title" json:"title"`
	Message   string               `db:"message" json:"message"`
	Type      NotificationType     `db:"type" json:"type"`
	Read      bool                 `db:"read" json:"read"`
	Link      *string              `db:"link" json:"link,omitempty"`
	Details   *NotificationDetails `db:"-" json:"details,omitempty"`
	CreatedAt time.Time            `db:"created_at" json:"date"`
}

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	StudentID  string
	UnreadOnly bool
	Page       int
	PageSize   int
}
