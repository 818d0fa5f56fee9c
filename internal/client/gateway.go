// Package client holds the backends the student-facing workflow talks to: a REST
// gateway to the portal API and an in-memory backend used offline and in tests.
package client

import (
	"context"

	"github.com/JavierCodely/sistema-educativo/internal/models"
)

// Gateway is everything the terminal client needs from a backend.
type Gateway interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListAvailableBoards(ctx context.Context) ([]models.AvailableBoard, error)
	ListEnrollments(ctx context.Context) ([]models.ExamEnrollment, error)
	CreateEnrollment(ctx context.Context, req models.CreateExamEnrollmentRequest) (*models.ExamEnrollment, error)
	CancelEnrollment(ctx context.Context, subjectID, boardID string) error
	ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

var (
	_ Gateway = (*HTTPGateway)(nil)
	_ Gateway = (*MemoryBackend)(nil)
)
