package respond_to_request

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
	HasClassroomOverlap(ctx context.Context, classroomID uuid.UUID, start, finish time.Time, candidateAllowsAdjacent bool, excludeLessonID *uuid.UUID) (bool, error)
	Confirm(ctx context.Context, id, classroomID uuid.UUID) error
	Terminate(ctx context.Context, id uuid.UUID) error
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetClassroom(ctx context.Context, id uuid.UUID) (*domain.Classroom, error)
}

// Notifier интерфейс клиента уведомлений
type Notifier interface {
	RequestAccepted(ctx context.Context, lessonID uuid.UUID) error
	RequestDeclined(ctx context.Context, lessonID uuid.UUID) error
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
