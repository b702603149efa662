package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	generateAvailability "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/generate_availability"
)

// SearchRequest HTTP request model
type SearchRequest struct {
	TeacherIDs []uuid.UUID `json:"teacherIds,omitempty"`
	CategoryID *uuid.UUID  `json:"categoryId,omitempty"`
	DateFrom   string      `json:"dateFrom"` // "2026-09-01" или RFC3339
	DateTo     string      `json:"dateTo"`
}

// WindowResponse доступное окно преподавателя
type WindowResponse struct {
	TeacherID  uuid.UUID `json:"teacherId"`
	StartTime  string    `json:"startTime"`
	FinishTime string    `json:"finishTime"`
}

// SearchResponse HTTP response model
type SearchResponse struct {
	Windows []WindowResponse `json:"windows"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SearchRequest) ToUseCaseRequest() (*generateAvailability.Request, error) {
	from, err := parseDateTime(r.DateFrom)
	if err != nil {
		return nil, err
	}

	to, err := parseDateTime(r.DateTo)
	if err != nil {
		return nil, err
	}

	return &generateAvailability.Request{
		TeacherIDs: r.TeacherIDs,
		CategoryID: r.CategoryID,
		DateFrom:   from,
		DateTo:     to,
	}, nil
}

// parseDateTime принимает дату YYYY-MM-DD или полный RFC3339-таймстамп
func parseDateTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(domain.DateFormat, value)
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateAvailability.Response) *SearchResponse {
	windows := make([]WindowResponse, 0, len(resp.Windows))
	for _, w := range resp.Windows {
		windows = append(windows, WindowResponse{
			TeacherID:  w.TeacherID,
			StartTime:  w.StartTime.Format(time.RFC3339),
			FinishTime: w.FinishTime.Format(time.RFC3339),
		})
	}

	return &SearchResponse{Windows: windows}
}
