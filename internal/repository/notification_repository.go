package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/JavierCodely/sistema-educativo/internal/models"
)

// NotificationRepository provides persistence for student notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

type notificationRow struct {
	models.Notification
	DetailSubject   sql.NullString  `db:"detail_subject"`
	DetailProfessor sql.NullString  `db:"detail_professor"`
	DetailGrade     sql.NullFloat64 `db:"detail_grade"`
}

// NewNotificationRepository creates the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, student_id, title, message, type, read, link, detail_subject, detail_professor, detail_grade, created_at`

// List returns the student's notifications, newest first.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	where := []string{"student_id = $1"}
	args := []interface{}{filter.StudentID}
	if filter.UnreadOnly {
		where = append(where, "read = FALSE")
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, notificationColumns, whereClause, size, offset)
	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM notifications WHERE %s", whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	notifications := make([]models.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, row.toModel())
	}
	return notifications, total, nil
}

// CountUnread returns how many notifications of the student are still unread.
func (r *NotificationRepository) CountUnread(ctx context.Context, studentID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE student_id = $1 AND read = FALSE`, studentID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// Create inserts a notification, assigning an id when missing.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	var subject, professor sql.NullString
	var grade sql.NullFloat64
	if n.Details != nil {
		subject = sql.NullString{String: n.Details.Subject, Valid: n.Details.Subject != ""}
		professor = sql.NullString{String: n.Details.Professor, Valid: n.Details.Professor != ""}
		if n.Details.Grade != nil {
			grade = sql.NullFloat64{Float64: *n.Details.Grade, Valid: true}
		}
	}

	query := fmt.Sprintf(`INSERT INTO notifications (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, notificationColumns)
	if _, err := r.db.ExecContext(ctx, query, n.ID, n.StudentID, n.Title, n.Message, n.Type, n.Read, n.Link, subject, professor, grade, n.CreatedAt); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkRead flags one notification of the student as read. It returns sql.ErrNoRows
// when the notification does not belong to the student.
func (r *NotificationRepository) MarkRead(ctx context.Context, studentID, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND student_id = $2`, id, studentID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return requireAffected(res)
}

// MarkAllRead flags every unread notification of the student and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, studentID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE student_id = $1 AND read = FALSE`, studentID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications rows: %w", err)
	}
	return affected, nil
}

// Delete removes a notification of the student.
func (r *NotificationRepository) Delete(ctx context.Context, studentID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND student_id = $2`, id, studentID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (row notificationRow) toModel() models.Notification {
	n := row.Notification
	if row.DetailSubject.Valid || row.DetailProfessor.Valid || row.DetailGrade.Valid {
		details := &models.NotificationDetails{Subject: row.DetailSubject.String, Professor: row.DetailProfessor.String}
		if row.DetailGrade.Valid {
			grade := row.DetailGrade.Float64
			details.Grade = &grade
		}
		n.Details = details
	}
	return n
}
