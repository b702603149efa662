package lessons

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// LessonRepository интерфейс репозитория занятий
type LessonRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	IsTeacherLinked(ctx context.Context, teacherID, lessonID uuid.UUID) (bool, error)
	Terminate(ctx context.Context, id uuid.UUID) error
}

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	HasActiveUseByStudent(ctx context.Context, studentID, lessonID uuid.UUID) (bool, error)
	CancelUsesByLesson(ctx context.Context, lessonID uuid.UUID) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
