package respond_to_request

import (
	"time"

	"github.com/google/uuid"

	respondToRequest "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/respond_to_request"
)

// RespondRequest HTTP request model
type RespondRequest struct {
	Accept      bool       `json:"accept"`
	ClassroomID *uuid.UUID `json:"classroomId,omitempty"`
}

// RespondResponse HTTP response model
type RespondResponse struct {
	ID          uuid.UUID  `json:"id"`
	IsConfirmed bool       `json:"isConfirmed"`
	Terminated  bool       `json:"terminated"`
	ClassroomID *uuid.UUID `json:"classroomId,omitempty"`
	StartTime   string     `json:"startTime"`
	FinishTime  string     `json:"finishTime"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RespondRequest) ToUseCaseRequest(lessonID, teacherID uuid.UUID) *respondToRequest.Request {
	return &respondToRequest.Request{
		LessonID:    lessonID,
		TeacherID:   teacherID,
		Accept:      r.Accept,
		ClassroomID: r.ClassroomID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *respondToRequest.Response) *RespondResponse {
	return &RespondResponse{
		ID:          resp.ID,
		IsConfirmed: resp.IsConfirmed,
		Terminated:  resp.Terminated,
		ClassroomID: resp.ClassroomID,
		StartTime:   resp.StartTime.Format(time.RFC3339),
		FinishTime:  resp.FinishTime.Format(time.RFC3339),
	}
}
