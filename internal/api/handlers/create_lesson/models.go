package create_lesson

import (
	"time"

	"github.com/google/uuid"

	createLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_lesson"
)

// CreateLessonRequest HTTP request model
type CreateLessonRequest struct {
	Name          string      `json:"name"`
	Description   *string     `json:"description,omitempty"`
	CategoryID    uuid.UUID   `json:"categoryId"`
	StartTime     time.Time   `json:"startTime"`
	FinishTime    time.Time   `json:"finishTime"`
	ClassroomID   *uuid.UUID  `json:"classroomId,omitempty"`
	GroupID       *uuid.UUID  `json:"groupId,omitempty"`
	TeacherIDs    []uuid.UUID `json:"teacherIds,omitempty"`
	AllowAdjacent bool        `json:"allowAdjacent"`
}

// LessonResponse HTTP response model
type LessonResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	CategoryID    uuid.UUID  `json:"categoryId"`
	StartTime     string     `json:"startTime"`
	FinishTime    string     `json:"finishTime"`
	ClassroomID   *uuid.UUID `json:"classroomId,omitempty"`
	GroupID       *uuid.UUID `json:"groupId,omitempty"`
	IsConfirmed   bool       `json:"isConfirmed"`
	AllowAdjacent bool       `json:"allowAdjacent"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateLessonRequest) ToUseCaseRequest() *createLesson.Request {
	return &createLesson.Request{
		Name:          r.Name,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		StartTime:     r.StartTime,
		FinishTime:    r.FinishTime,
		ClassroomID:   r.ClassroomID,
		GroupID:       r.GroupID,
		TeacherIDs:    r.TeacherIDs,
		AllowAdjacent: r.AllowAdjacent,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createLesson.Response) *LessonResponse {
	return &LessonResponse{
		ID:            resp.ID,
		Name:          resp.Name,
		Description:   resp.Description,
		CategoryID:    resp.CategoryID,
		StartTime:     resp.StartTime.Format(time.RFC3339),
		FinishTime:    resp.FinishTime.Format(time.RFC3339),
		ClassroomID:   resp.ClassroomID,
		GroupID:       resp.GroupID,
		IsConfirmed:   resp.IsConfirmed,
		AllowAdjacent: resp.AllowAdjacent,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
