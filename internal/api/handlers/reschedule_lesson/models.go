package reschedule_lesson

import (
	"time"

	"github.com/google/uuid"

	rescheduleLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/reschedule_lesson"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	StartTime   time.Time  `json:"startTime"`
	FinishTime  time.Time  `json:"finishTime"`
	ClassroomID *uuid.UUID `json:"classroomId,omitempty"`
}

// LessonResponse HTTP response model
type LessonResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	CategoryID    uuid.UUID  `json:"categoryId"`
	StartTime     string     `json:"startTime"`
	FinishTime    string     `json:"finishTime"`
	ClassroomID   *uuid.UUID `json:"classroomId,omitempty"`
	GroupID       *uuid.UUID `json:"groupId,omitempty"`
	IsConfirmed   bool       `json:"isConfirmed"`
	AllowAdjacent bool       `json:"allowAdjacent"`
	UpdatedAt     string     `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(lessonID uuid.UUID) *rescheduleLesson.Request {
	return &rescheduleLesson.Request{
		LessonID:    lessonID,
		StartTime:   r.StartTime,
		FinishTime:  r.FinishTime,
		ClassroomID: r.ClassroomID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleLesson.Response) *LessonResponse {
	return &LessonResponse{
		ID:            resp.ID,
		Name:          resp.Name,
		CategoryID:    resp.CategoryID,
		StartTime:     resp.StartTime.Format(time.RFC3339),
		FinishTime:    resp.FinishTime.Format(time.RFC3339),
		ClassroomID:   resp.ClassroomID,
		GroupID:       resp.GroupID,
		IsConfirmed:   resp.IsConfirmed,
		AllowAdjacent: resp.AllowAdjacent,
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
