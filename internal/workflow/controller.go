// Package workflow drives exam enrollment on behalf of one student: it keeps a local
// mirror of the enrollment list, submits create/cancel commands to the enrollment
// service and reports the result through a success slot and an error slot.
package workflow

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	"github.com/JavierCodely/sistema-educativo/internal/service"
)

// EnrollmentService is the remote side of the workflow.
type EnrollmentService interface {
	CreateEnrollment(ctx context.Context, req models.CreateExamEnrollmentRequest) (*models.ExamEnrollment, error)
	CancelEnrollment(ctx context.Context, subjectID, boardID string) error
}

// BoardSource supplies fresh snapshots for Reload.
type BoardSource interface {
	ListAvailableBoards(ctx context.Context) ([]models.AvailableBoard, error)
	ListEnrollments(ctx context.Context) ([]models.ExamEnrollment, error)
}

// Notifier receives the same messages that land in the slots.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// RefreshFunc is called after every successful action so the owner of the
// authoritative list can merge or re-fetch. It gets the new enrollment after an
// enroll and nil after a cancel.
type RefreshFunc func(created *models.ExamEnrollment)

// Outcome reports what an action did.
type Outcome int

const (
	// OutcomeIgnored: nothing to act on (unknown board, no pending cancellation).
	OutcomeIgnored Outcome = iota
	// OutcomeBusy: another submission is in flight.
	OutcomeBusy
	OutcomeSucceeded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeBusy:
		return "busy"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options configures a Controller. Zero values are valid.
type Options struct {
	Logger    *zap.Logger
	Notifier  Notifier
	OnRefresh RefreshFunc
}

// Controller owns the enrollment mirror. Network calls run without holding the lock;
// the busy flag keeps a second submission out while one is in flight.
type Controller struct {
	svc       EnrollmentService
	logger    *zap.Logger
	notifier  Notifier
	onRefresh RefreshFunc

	mu          sync.Mutex
	boards      []models.AvailableBoard
	enrollments []models.ExamEnrollment
	busy        bool
	cancelling  bool
	pending     *models.ExamEnrollment
	errMsg      string
	successMsg  string
}

// New builds a controller over svc with an initial snapshot.
func New(svc EnrollmentService, boards []models.AvailableBoard, enrollments []models.ExamEnrollment, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		svc:         svc,
		logger:      opts.Logger,
		notifier:    opts.Notifier,
		onRefresh:   opts.OnRefresh,
		boards:      cloneBoards(boards),
		enrollments: cloneEnrollments(enrollments),
	}
}

// Replace installs a new snapshot wholesale.
func (c *Controller) Replace(boards []models.AvailableBoard, enrollments []models.ExamEnrollment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boards = cloneBoards(boards)
	c.enrollments = cloneEnrollments(enrollments)
}

// Reload fetches both lists from src and replaces the snapshot. On error the current
// snapshot is kept.
func (c *Controller) Reload(ctx context.Context, src BoardSource) error {
	boards, err := src.ListAvailableBoards(ctx)
	if err != nil {
		return err
	}
	enrollments, err := src.ListEnrollments(ctx)
	if err != nil {
		return err
	}
	c.Replace(boards, enrollments)
	return nil
}

// Enroll registers the student to boardID. The board must be part of the current
// board snapshot; otherwise nothing happens.
func (c *Controller) Enroll(ctx context.Context, boardID string) Outcome {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		c.logger.Debug("enroll rejected while busy", zap.String("board_id", boardID))
		return OutcomeBusy
	}
	group, board, ok := service.FindBoard(c.boards, boardID)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("enroll ignored: board not in snapshot", zap.String("board_id", boardID))
		return OutcomeIgnored
	}
	c.busy = true
	c.errMsg = ""
	c.successMsg = ""
	c.mu.Unlock()

	req := models.CreateExamEnrollmentRequest{SubjectID: group.SubjectID, BoardID: board.ID, State: group.State}
	if _, err := c.svc.CreateEnrollment(ctx, req); err != nil {
		c.logger.Error("create exam enrollment failed",
			zap.String("subject_id", req.SubjectID),
			zap.String("board_id", req.BoardID),
			zap.Error(err))
		c.fail(MsgEnrollFailed)
		return OutcomeFailed
	}

	// The service response is not trusted to echo a full record.
	created := models.ExamEnrollment{
		SubjectID:   group.SubjectID,
		BoardID:     board.ID,
		SubjectName: group.SubjectName,
		BoardName:   board.Name,
		Date:        board.Date,
		State:       group.State,
	}
	msg := EnrolledMessage(group.SubjectName)

	c.mu.Lock()
	if indexOf(c.enrollments, created.SubjectID, created.BoardID) < 0 {
		next := make([]models.ExamEnrollment, 0, len(c.enrollments)+1)
		next = append(next, c.enrollments...)
		c.enrollments = append(next, created)
	}
	c.successMsg = msg
	c.busy = false
	c.mu.Unlock()

	c.logger.Info("exam enrollment created", zap.String("subject_id", created.SubjectID), zap.String("board_id", created.BoardID))
	if c.onRefresh != nil {
		record := created
		c.onRefresh(&record)
	}
	if c.notifier != nil {
		c.notifier.Success(msg)
	}
	return OutcomeSucceeded
}

// RequestCancel marks an existing enrollment as pending cancellation. Nothing is sent
// until ConfirmCancel. It returns false when the enrollment is not in the mirror.
func (c *Controller) RequestCancel(enrollment models.ExamEnrollment) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelling {
		return false
	}
	i := indexOf(c.enrollments, enrollment.SubjectID, enrollment.BoardID)
	if i < 0 {
		return false
	}
	target := c.enrollments[i]
	c.pending = &target
	return true
}

// AbortCancel drops the pending cancellation without contacting the service.
func (c *Controller) AbortCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelling {
		// Already submitted; the result will clear it.
		return
	}
	c.pending = nil
}

// ConfirmCancel submits the pending cancellation.
func (c *Controller) ConfirmCancel(ctx context.Context) Outcome {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return OutcomeIgnored
	}
	if c.busy {
		c.mu.Unlock()
		return OutcomeBusy
	}
	target := *c.pending
	c.busy = true
	c.cancelling = true
	c.errMsg = ""
	c.successMsg = ""
	c.mu.Unlock()

	if err := c.svc.CancelEnrollment(ctx, target.SubjectID, target.BoardID); err != nil {
		c.logger.Error("cancel exam enrollment failed",
			zap.String("subject_id", target.SubjectID),
			zap.String("board_id", target.BoardID),
			zap.Error(err))
		c.mu.Lock()
		c.pending = nil
		c.cancelling = false
		c.mu.Unlock()
		c.fail(MsgCancelFailed)
		return OutcomeFailed
	}

	msg := CanceledMessage(target.SubjectName)

	c.mu.Lock()
	next := make([]models.ExamEnrollment, 0, len(c.enrollments))
	for _, e := range c.enrollments {
		if !e.Matches(target.SubjectID, target.BoardID) {
			next = append(next, e)
		}
	}
	c.enrollments = next
	c.successMsg = msg
	c.pending = nil
	c.cancelling = false
	c.busy = false
	c.mu.Unlock()

	c.logger.Info("exam enrollment cancelled", zap.String("subject_id", target.SubjectID), zap.String("board_id", target.BoardID))
	if c.onRefresh != nil {
		c.onRefresh(nil)
	}
	if c.notifier != nil {
		c.notifier.Success(msg)
	}
	return OutcomeSucceeded
}

func (c *Controller) fail(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.busy = false
	c.mu.Unlock()
	if c.notifier != nil {
		c.notifier.Error(msg)
	}
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Pending returns the enrollment awaiting confirmation, if any.
func (c *Controller) Pending() (models.ExamEnrollment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return models.ExamEnrollment{}, false
	}
	return *c.pending, true
}

// Error returns the current error message, empty when none.
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Success returns the current success message, empty when none.
func (c *Controller) Success() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successMsg
}

// ClearError empties the error slot.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.errMsg = ""
	c.mu.Unlock()
}

// ClearSuccess empties the success slot.
func (c *Controller) ClearSuccess() {
	c.mu.Lock()
	c.successMsg = ""
	c.mu.Unlock()
}

// Enrollments returns a copy of the mirror.
func (c *Controller) Enrollments() []models.ExamEnrollment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneEnrollments(c.enrollments)
}

// Boards returns a copy of the board snapshot.
func (c *Controller) Boards() []models.AvailableBoard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneBoards(c.boards)
}

// Available is the directory view: boards of subjects without an enrollment.
func (c *Controller) Available() []models.AvailableBoard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneBoards(service.AvailableForEnrollment(c.boards, c.enrollments))
}

func indexOf(enrollments []models.ExamEnrollment, subjectID, boardID string) int {
	for i, e := range enrollments {
		if e.Matches(subjectID, boardID) {
			return i
		}
	}
	return -1
}

func cloneEnrollments(in []models.ExamEnrollment) []models.ExamEnrollment {
	out := make([]models.ExamEnrollment, len(in))
	copy(out, in)
	return out
}

func cloneBoards(in []models.AvailableBoard) []models.AvailableBoard {
	out := make([]models.AvailableBoard, len(in))
	for i, group := range in {
		out[i] = group
		out[i].Boards = append([]models.ExamBoard(nil), group.Boards...)
	}
	return out
}
