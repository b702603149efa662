package generate_availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов расписания
type SlotRepository interface {
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.SlotDefinition, error)
	ListForCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SlotDefinition, error)
}

// LessonRepository интерфейс репозитория занятий
type LessonRepository interface {
	HasTeacherOverlap(ctx context.Context, teacherID uuid.UUID, start, finish time.Time, excludeLessonID *uuid.UUID) (bool, error)
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetTeacher(ctx context.Context, id uuid.UUID) (*domain.Teacher, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.LessonCategory, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
