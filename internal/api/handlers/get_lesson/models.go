package get_lesson

import (
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

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
	Terminated    bool       `json:"terminated"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

// FromDomain конвертирует доменное занятие в HTTP response
func FromDomain(l *domain.Lesson) *LessonResponse {
	return &LessonResponse{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		CategoryID:    l.CategoryID,
		StartTime:     l.StartTime.Format(time.RFC3339),
		FinishTime:    l.FinishTime.Format(time.RFC3339),
		ClassroomID:   l.ClassroomID,
		GroupID:       l.GroupID,
		IsConfirmed:   l.IsConfirmed,
		AllowAdjacent: l.AllowAdjacent,
		Terminated:    l.Terminated,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     l.UpdatedAt.Format(time.RFC3339),
	}
}
