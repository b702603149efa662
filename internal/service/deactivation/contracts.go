package deactivation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// LessonRepository интерфейс репозитория занятий
type LessonRepository interface {
	ListFutureNonGroupLessonsByTeacher(ctx context.Context, teacherID uuid.UUID, asOf time.Time) ([]*domain.Lesson, error)
	ListFutureConfirmedByGroup(ctx context.Context, groupID uuid.UUID, asOf time.Time) ([]*domain.Lesson, error)
	Terminate(ctx context.Context, id uuid.UUID) error
	DeleteFutureTeacherLinks(ctx context.Context, teacherID uuid.UUID, asOf time.Time) (int64, error)
	DeleteTeacherLinks(ctx context.Context, lessonID uuid.UUID) (int64, error)
}

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	CancelUsesByLesson(ctx context.Context, lessonID uuid.UUID) (int64, error)
	CancelFutureUsesByStudent(ctx context.Context, studentID uuid.UUID, asOf time.Time) (int64, error)
}

// GroupRepository интерфейс репозитория групп
type GroupRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	DeleteTeacherMemberships(ctx context.Context, teacherID uuid.UUID) (int64, error)
	DeleteStudentMemberships(ctx context.Context, studentID uuid.UUID) (int64, error)
	DeleteAllMemberships(ctx context.Context, groupID uuid.UUID) (int64, error)
	Terminate(ctx context.Context, id uuid.UUID) error
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetTeacher(ctx context.Context, id uuid.UUID) (*domain.Teacher, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error)
	GetClassroom(ctx context.Context, id uuid.UUID) (*domain.Classroom, error)
	TerminateTeacher(ctx context.Context, id uuid.UUID) error
	TerminateStudent(ctx context.Context, id uuid.UUID) error
	TerminateClassroom(ctx context.Context, id uuid.UUID) error
}

// Notifier интерфейс клиента уведомлений
type Notifier interface {
	LessonCancelled(ctx context.Context, lessonID uuid.UUID) error
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
