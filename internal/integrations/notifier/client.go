package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с сервисом уведомлений.
// Уведомления не влияют на результат операции: вызывающая сторона
// логирует ошибку клиента и продолжает работу.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// LessonRequested отправляет уведомление о новой заявке на занятие
func (c *Client) LessonRequested(ctx context.Context, lessonID, teacherID, studentID uuid.UUID) error {
	return c.send(ctx, Event{
		Type:      EventLessonRequested,
		LessonID:  lessonID,
		TeacherID: &teacherID,
		StudentID: &studentID,
	})
}

// RequestAccepted отправляет уведомление о подтверждении заявки
func (c *Client) RequestAccepted(ctx context.Context, lessonID uuid.UUID) error {
	return c.send(ctx, Event{
		Type:     EventRequestAccepted,
		LessonID: lessonID,
	})
}

// LessonCancelled отправляет уведомление об отмене занятия
func (c *Client) LessonCancelled(ctx context.Context, lessonID uuid.UUID) error {
	return c.send(ctx, Event{
		Type:     EventLessonCancelled,
		LessonID: lessonID,
	})
}

// RequestDeclined отправляет уведомление об отклонении заявки
func (c *Client) RequestDeclined(ctx context.Context, lessonID uuid.UUID) error {
	return c.send(ctx, Event{
		Type:     EventRequestDeclined,
		LessonID: lessonID,
	})
}

func (c *Client) send(ctx context.Context, event Event) error {
	url := fmt.Sprintf("%s/internal/events", c.baseURL)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		c.log.Info("Notification %s sent for lesson=%s", event.Type, event.LessonID)
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}
