package notifier

import "github.com/google/uuid"

// Событие жизненного цикла занятия
const (
	EventLessonRequested = "lesson_requested"
	EventRequestAccepted = "request_accepted"
	EventRequestDeclined = "request_declined"
	EventLessonCancelled = "lesson_cancelled"
)

// Event модель события для сервиса уведомлений
type Event struct {
	Type      string     `json:"type"`
	LessonID  uuid.UUID  `json:"lesson_id"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
}

// ErrorResponse модель ошибки от сервиса уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
