package slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// CreateSlotRequest HTTP request model
type CreateSlotRequest struct {
	TeacherID uuid.UUID `json:"teacherId"`
	DayOfWeek int       `json:"dayOfWeek"` // 0 — понедельник ... 6 — воскресенье
	StartTime string    `json:"startTime"` // "10:00"
	EndTime   string    `json:"endTime"`   // "14:00"
}

// UpdateSlotRequest HTTP request model
type UpdateSlotRequest struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// SlotResponse HTTP response model
type SlotResponse struct {
	ID        uuid.UUID `json:"id"`
	TeacherID uuid.UUID `json:"teacherId"`
	DayOfWeek int       `json:"dayOfWeek"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// SlotsResponse HTTP response model со списком слотов
type SlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// parseClock парсит "HH:MM" в минуты от полуночи
func parseClock(value string) (int, error) {
	t, err := time.Parse(domain.TimeFormat, value)
	if err != nil {
		return 0, fmt.Errorf("parse clock value %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// formatClock форматирует минуты от полуночи в "HH:MM"
func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ToDomain конвертирует HTTP запрос в доменный слот
func (r *CreateSlotRequest) ToDomain() (*domain.SlotDefinition, error) {
	start, err := parseClock(r.StartTime)
	if err != nil {
		return nil, err
	}

	end, err := parseClock(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &domain.SlotDefinition{
		TeacherID:    r.TeacherID,
		DayOfWeek:    r.DayOfWeek,
		StartMinutes: start,
		EndMinutes:   end,
	}, nil
}

// FromDomain конвертирует доменный слот в HTTP response
func FromDomain(s *domain.SlotDefinition) *SlotResponse {
	return &SlotResponse{
		ID:        s.ID,
		TeacherID: s.TeacherID,
		DayOfWeek: s.DayOfWeek,
		StartTime: formatClock(s.StartMinutes),
		EndTime:   formatClock(s.EndMinutes),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainList конвертирует список слотов в HTTP response
func FromDomainList(slots []*domain.SlotDefinition) *SlotsResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, *FromDomain(s))
	}
	return &SlotsResponse{Slots: out}
}
