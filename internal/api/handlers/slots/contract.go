package slots

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

type TimeslotsService interface {
	Create(ctx context.Context, slot *domain.SlotDefinition, actor domain.Actor) (*domain.SlotDefinition, error)
	Update(ctx context.Context, slotID uuid.UUID, dayOfWeek, startMinutes, endMinutes int, actor domain.Actor) (*domain.SlotDefinition, error)
	Delete(ctx context.Context, slotID uuid.UUID, actor domain.Actor) error
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.SlotDefinition, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
