package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
)

type notificationRepository interface {
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	CountUnread(ctx context.Context, studentID string) (int, error)
	Create(ctx context.Context, n *models.Notification) error
	MarkRead(ctx context.Context, studentID, id string) error
	MarkAllRead(ctx context.Context, studentID string) (int64, error)
	Delete(ctx context.Context, studentID, id string) error
}

// NotificationService manages the notices addressed to a student.
type NotificationService struct {
	repo   notificationRepository
	logger *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(repo notificationRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, logger: logger}
}

// List returns a page of notifications, newest first.
func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list notifications")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UnreadCount feeds the unread badge.
func (s *NotificationService) UnreadCount(ctx context.Context, studentID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, studentID)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to count notifications")
	}
	return count, nil
}

// Notify stores a new notice for the student.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return appErrors.Internal(err, "failed to create notification")
	}
	return nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, studentID, id string) error {
	return s.notFoundOr(s.repo.MarkRead(ctx, studentID, id), "failed to update notification")
}

// MarkAllRead flags every notification of the student as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, studentID string) (int64, error) {
	changed, err := s.repo.MarkAllRead(ctx, studentID)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to update notifications")
	}
	return changed, nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, studentID, id string) error {
	return s.notFoundOr(s.repo.Delete(ctx, studentID, id), "failed to delete notification")
}

func (s *NotificationService) notFoundOr(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	}
	return appErrors.Internal(err, message)
}
