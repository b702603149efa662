package timeslots

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов расписания
type SlotRepository interface {
	Create(ctx context.Context, s *domain.SlotDefinition) (*domain.SlotDefinition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SlotDefinition, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.SlotDefinition, error)
	HasOverlapping(ctx context.Context, teacherID uuid.UUID, dayOfWeek, startMinutes, endMinutes int, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, s *domain.SlotDefinition) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetTeacher(ctx context.Context, id uuid.UUID) (*domain.Teacher, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
