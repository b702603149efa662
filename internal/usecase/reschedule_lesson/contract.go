package reschedule_lesson

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// LessonRepository интерфейс репозитория занятий
type LessonRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	ListTeacherIDs(ctx context.Context, lessonID uuid.UUID) ([]uuid.UUID, error)
	HasTeacherOverlap(ctx context.Context, teacherID uuid.UUID, start, finish time.Time, excludeLessonID *uuid.UUID) (bool, error)
	HasStudentOverlap(ctx context.Context, studentID uuid.UUID, start, finish time.Time, excludeLessonID *uuid.UUID) (bool, error)
	HasClassroomOverlap(ctx context.Context, classroomID uuid.UUID, start, finish time.Time, candidateAllowsAdjacent bool, excludeLessonID *uuid.UUID) (bool, error)
	UpdateSchedule(ctx context.Context, id uuid.UUID, start, finish time.Time, classroomID *uuid.UUID) error
}

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	ListStudentIDsByLesson(ctx context.Context, lessonID uuid.UUID) ([]uuid.UUID, error)
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetClassroom(ctx context.Context, id uuid.UUID) (*domain.Classroom, error)
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
