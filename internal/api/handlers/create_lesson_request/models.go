package create_lesson_request

import (
	"time"

	"github.com/google/uuid"

	createLessonRequest "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_lesson_request"
)

// CreateLessonRequestRequest HTTP request model
type CreateLessonRequestRequest struct {
	TeacherID      uuid.UUID  `json:"teacherId"`
	Name           string     `json:"name"`
	Description    *string    `json:"description,omitempty"`
	CategoryID     uuid.UUID  `json:"categoryId"`
	StartTime      time.Time  `json:"startTime"`
	FinishTime     time.Time  `json:"finishTime"`
	SubscriptionID *uuid.UUID `json:"subscriptionId,omitempty"`
}

// LessonRequestResponse HTTP response model
type LessonRequestResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	CategoryID     uuid.UUID `json:"categoryId"`
	TeacherID      uuid.UUID `json:"teacherId"`
	StartTime      string    `json:"startTime"`
	FinishTime     string    `json:"finishTime"`
	IsConfirmed    bool      `json:"isConfirmed"`
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	CreatedAt      string    `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Ученик-инициатор берётся из контекста запроса, не из тела.
func (r *CreateLessonRequestRequest) ToUseCaseRequest(studentID uuid.UUID) *createLessonRequest.Request {
	return &createLessonRequest.Request{
		StudentID:      studentID,
		TeacherID:      r.TeacherID,
		Name:           r.Name,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		StartTime:      r.StartTime,
		FinishTime:     r.FinishTime,
		SubscriptionID: r.SubscriptionID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createLessonRequest.Response) *LessonRequestResponse {
	return &LessonRequestResponse{
		ID:             resp.ID,
		Name:           resp.Name,
		CategoryID:     resp.CategoryID,
		TeacherID:      resp.TeacherID,
		StartTime:      resp.StartTime.Format(time.RFC3339),
		FinishTime:     resp.FinishTime.Format(time.RFC3339),
		IsConfirmed:    resp.IsConfirmed,
		SubscriptionID: resp.SubscriptionID,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
}
