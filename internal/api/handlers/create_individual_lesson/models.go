package create_individual_lesson

import (
	"time"

	"github.com/google/uuid"

	createIndividualLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_individual_lesson"
)

// CreateIndividualLessonRequest HTTP request model
type CreateIndividualLessonRequest struct {
	StudentID      uuid.UUID  `json:"studentId"`
	Name           string     `json:"name"`
	Description    *string    `json:"description,omitempty"`
	CategoryID     uuid.UUID  `json:"categoryId"`
	StartTime      time.Time  `json:"startTime"`
	FinishTime     time.Time  `json:"finishTime"`
	ClassroomID    *uuid.UUID `json:"classroomId,omitempty"`
	SubscriptionID *uuid.UUID `json:"subscriptionId,omitempty"`
	AllowAdjacent  bool       `json:"allowAdjacent"`
}

// LessonResponse HTTP response model
type LessonResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	CategoryID     uuid.UUID  `json:"categoryId"`
	StartTime      string     `json:"startTime"`
	FinishTime     string     `json:"finishTime"`
	ClassroomID    *uuid.UUID `json:"classroomId,omitempty"`
	IsConfirmed    bool       `json:"isConfirmed"`
	SubscriptionID uuid.UUID  `json:"subscriptionId"`
	CreatedAt      string     `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Преподаватель-инициатор берётся из контекста запроса, не из тела.
func (r *CreateIndividualLessonRequest) ToUseCaseRequest(teacherID uuid.UUID) *createIndividualLesson.Request {
	return &createIndividualLesson.Request{
		TeacherID:      teacherID,
		StudentID:      r.StudentID,
		Name:           r.Name,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		StartTime:      r.StartTime,
		FinishTime:     r.FinishTime,
		ClassroomID:    r.ClassroomID,
		SubscriptionID: r.SubscriptionID,
		AllowAdjacent:  r.AllowAdjacent,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createIndividualLesson.Response) *LessonResponse {
	return &LessonResponse{
		ID:             resp.ID,
		Name:           resp.Name,
		CategoryID:     resp.CategoryID,
		StartTime:      resp.StartTime.Format(time.RFC3339),
		FinishTime:     resp.FinishTime.Format(time.RFC3339),
		ClassroomID:    resp.ClassroomID,
		IsConfirmed:    resp.IsConfirmed,
		SubscriptionID: resp.SubscriptionID,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
}
