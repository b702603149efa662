package create_group_lesson

import (
	"time"

	"github.com/google/uuid"

	createGroupLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_group_lesson"
)

// CreateGroupLessonRequest HTTP request model
type CreateGroupLessonRequest struct {
	GroupID       uuid.UUID  `json:"groupId"`
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	CategoryID    uuid.UUID  `json:"categoryId"`
	StartTime     time.Time  `json:"startTime"`
	FinishTime    time.Time  `json:"finishTime"`
	ClassroomID   *uuid.UUID `json:"classroomId,omitempty"`
	AllowAdjacent bool       `json:"allowAdjacent"`
}

// LessonResponse HTTP response model
type LessonResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	CategoryID  uuid.UUID  `json:"categoryId"`
	GroupID     uuid.UUID  `json:"groupId"`
	StartTime   string     `json:"startTime"`
	FinishTime  string     `json:"finishTime"`
	ClassroomID *uuid.UUID `json:"classroomId,omitempty"`
	IsConfirmed bool       `json:"isConfirmed"`
	CreatedAt   string     `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateGroupLessonRequest) ToUseCaseRequest(teacherID uuid.UUID) *createGroupLesson.Request {
	return &createGroupLesson.Request{
		TeacherID:     teacherID,
		GroupID:       r.GroupID,
		Name:          r.Name,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		StartTime:     r.StartTime,
		FinishTime:    r.FinishTime,
		ClassroomID:   r.ClassroomID,
		AllowAdjacent: r.AllowAdjacent,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createGroupLesson.Response) *LessonResponse {
	return &LessonResponse{
		ID:          resp.ID,
		Name:        resp.Name,
		CategoryID:  resp.CategoryID,
		GroupID:     resp.GroupID,
		StartTime:   resp.StartTime.Format(time.RFC3339),
		FinishTime:  resp.FinishTime.Format(time.RFC3339),
		ClassroomID: resp.ClassroomID,
		IsConfirmed: resp.IsConfirmed,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
