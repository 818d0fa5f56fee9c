package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	"github.com/JavierCodely/sistema-educativo/pkg/config"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// HTTPGateway talks to the portal REST API.
type HTTPGateway struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// envelope mirrors pkg/response.Envelope on the decoding side.
type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

// NewHTTPGateway builds a gateway from the client configuration.
func NewHTTPGateway(cfg config.PortalClientConfig, logger *zap.Logger) *HTTPGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (g *HTTPGateway) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := g.do(ctx, http.MethodGet, "/subjects", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (g *HTTPGateway) ListAvailableBoards(ctx context.Context) ([]models.AvailableBoard, error) {
	var boards []models.AvailableBoard
	if err := g.do(ctx, http.MethodGet, "/exam-boards/available", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

func (g *HTTPGateway) ListEnrollments(ctx context.Context) ([]models.ExamEnrollment, error) {
	var enrollments []models.ExamEnrollment
	if err := g.do(ctx, http.MethodGet, "/exam-enrollments", nil, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (g *HTTPGateway) CreateEnrollment(ctx context.Context, req models.CreateExamEnrollmentRequest) (*models.ExamEnrollment, error) {
	var created models.ExamEnrollment
	if err := g.do(ctx, http.MethodPost, "/exam-enrollments", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *HTTPGateway) CancelEnrollment(ctx context.Context, subjectID, boardID string) error {
	path := fmt.Sprintf("/exam-enrollments/%s/%s", url.PathEscape(subjectID), url.PathEscape(boardID))
	return g.do(ctx, http.MethodDelete, path, nil, nil)
}

func (g *HTTPGateway) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	path := "/notifications"
	if unreadOnly {
		path += "?unread=true"
	}
	var notifications []models.Notification
	if err := g.do(ctx, http.MethodGet, path, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (g *HTTPGateway) MarkNotificationRead(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodPatch, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

// do sends one request and decodes the envelope. API errors come back as *appErrors.Error.
func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "portal api unreachable")
	}
	defer resp.Body.Close()

	g.logger.Debug("portal api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= http.StatusBadRequest {
				return appErrors.New("HTTP_"+fmt.Sprint(resp.StatusCode), resp.StatusCode, http.StatusText(resp.StatusCode))
			}
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if env.Error != nil {
			if env.Error.Status == 0 {
				env.Error.Status = resp.StatusCode
			}
			return env.Error
		}
		return appErrors.New("HTTP_"+fmt.Sprint(resp.StatusCode), resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
