package create_individual_lesson

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// LessonRepository интерфейс репозитория занятий
type LessonRepository interface {
	Create(ctx context.Context, l *domain.Lesson) (*domain.Lesson, error)
	AttachTeacher(ctx context.Context, teacherID, lessonID uuid.UUID) error
	HasTeacherOverlap(ctx context.Context, teacherID uuid.UUID, start, finish time.Time, excludeLessonID *uuid.UUID) (bool, error)
	HasStudentOverlap(ctx context.Context, studentID uuid.UUID, start, finish time.Time, excludeLessonID *uuid.UUID) (bool, error)
	HasClassroomOverlap(ctx context.Context, classroomID uuid.UUID, start, finish time.Time, candidateAllowsAdjacent bool, excludeLessonID *uuid.UUID) (bool, error)
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.LessonCategory, error)
	GetClassroom(ctx context.Context, id uuid.UUID) (*domain.Classroom, error)
	GetTeacher(ctx context.Context, id uuid.UUID) (*domain.Teacher, error)
}

// LedgerService интерфейс сервиса учёта абонементов
type LedgerService interface {
	Reserve(ctx context.Context, studentID uuid.UUID, lesson *domain.Lesson, subscriptionID *uuid.UUID, now time.Time) (*domain.LessonSubscription, error)
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
