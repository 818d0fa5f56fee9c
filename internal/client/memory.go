package client

import (
	"context"
	"sort"
	"sync"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	"github.com/JavierCodely/sistema-educativo/internal/service"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
)

// Operation names a MemoryBackend call for failure injection and call counting.
type Operation string

const (
	OpListSubjects      Operation = "list_subjects"
	OpListBoards        Operation = "list_boards"
	OpListEnrollments   Operation = "list_enrollments"
	OpCreateEnrollment  Operation = "create_enrollment"
	OpCancelEnrollment  Operation = "cancel_enrollment"
	OpListNotifications Operation = "list_notifications"
	OpMarkRead          Operation = "mark_read"
)

// MemoryBackend keeps the whole portal state in memory. Each value is independent;
// callers construct one and inject it where a Gateway is expected.
type MemoryBackend struct {
	mu            sync.Mutex
	subjects      []models.Subject
	boards        []models.AvailableBoard
	enrollments   []models.ExamEnrollment
	notifications map[string]models.Notification
	failures      map[Operation]error
	calls         map[Operation]int
}

// NewMemoryBackend builds a backend holding a copy of seed.
func NewMemoryBackend(seed Seed) *MemoryBackend {
	m := &MemoryBackend{
		subjects:      append([]models.Subject(nil), seed.Subjects...),
		boards:        append([]models.AvailableBoard(nil), seed.Boards...),
		enrollments:   append([]models.ExamEnrollment(nil), seed.Enrollments...),
		notifications: make(map[string]models.Notification, len(seed.Notifications)),
		failures:      make(map[Operation]error),
		calls:         make(map[Operation]int),
	}
	for _, n := range seed.Notifications {
		m.notifications[n.ID] = n
	}
	return m
}

// Fail makes every subsequent op call return err. A nil err clears the failure.
func (m *MemoryBackend) Fail(op Operation, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Calls returns how many times op was invoked.
func (m *MemoryBackend) Calls(op Operation) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// enter records the call and returns the injected failure, if any. Callers hold mu.
func (m *MemoryBackend) enter(op Operation) error {
	m.calls[op]++
	return m.failures[op]
}

func (m *MemoryBackend) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpListSubjects); err != nil {
		return nil, err
	}
	out := make([]models.Subject, len(m.subjects))
	copy(out, m.subjects)
	return out, nil
}

func (m *MemoryBackend) ListAvailableBoards(ctx context.Context) ([]models.AvailableBoard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpListBoards); err != nil {
		return nil, err
	}
	out := make([]models.AvailableBoard, len(m.boards))
	for i, group := range m.boards {
		out[i] = group
		out[i].Boards = append([]models.ExamBoard(nil), group.Boards...)
	}
	return out, nil
}

func (m *MemoryBackend) ListEnrollments(ctx context.Context) ([]models.ExamEnrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpListEnrollments); err != nil {
		return nil, err
	}
	out := make([]models.ExamEnrollment, len(m.enrollments))
	copy(out, m.enrollments)
	return out, nil
}

// CreateEnrollment records an enrollment for a known board of a subject without
// pending prerequisites. Unlike the API it does not reject a second enrollment for the
// same subject.
func (m *MemoryBackend) CreateEnrollment(ctx context.Context, req models.CreateExamEnrollmentRequest) (*models.ExamEnrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpCreateEnrollment); err != nil {
		return nil, err
	}

	group, board, ok := service.FindBoard(m.boards, req.BoardID)
	if !ok || group.SubjectID != req.SubjectID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exam board not found")
	}
	if group.Blocked() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject has pending prerequisites")
	}

	created := models.ExamEnrollment{
		SubjectID:   group.SubjectID,
		BoardID:     board.ID,
		SubjectName: group.SubjectName,
		BoardName:   board.Name,
		Date:        board.Date,
		State:       req.State,
	}
	for _, e := range m.enrollments {
		if e.Matches(created.SubjectID, created.BoardID) {
			return &created, nil
		}
	}
	m.enrollments = append(m.enrollments, created)
	return &created, nil
}

func (m *MemoryBackend) CancelEnrollment(ctx context.Context, subjectID, boardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpCancelEnrollment); err != nil {
		return err
	}

	kept := m.enrollments[:0:0]
	found := false
	for _, e := range m.enrollments {
		if e.Matches(subjectID, boardID) {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "exam enrollment not found")
	}
	m.enrollments = kept
	return nil
}

// ListNotifications returns notices newest first.
func (m *MemoryBackend) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpListNotifications); err != nil {
		return nil, err
	}

	out := make([]models.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryBackend) MarkNotificationRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpMarkRead); err != nil {
		return err
	}
	n, ok := m.notifications[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	}
	n.Read = true
	m.notifications[id] = n
	return nil
}
