package enrollment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// GroupRepository интерфейс репозитория групп
type GroupRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	IsStudentMember(ctx context.Context, studentID, groupID uuid.UUID) (bool, error)
	CountStudents(ctx context.Context, groupID uuid.UUID) (int, error)
	AddStudent(ctx context.Context, studentID, groupID uuid.UUID) error
	RemoveStudent(ctx context.Context, studentID, groupID uuid.UUID) (int64, error)
}

// LessonRepository интерфейс репозитория занятий
type LessonRepository interface {
	CategoryIDsOfFutureConfirmedByGroup(ctx context.Context, groupID uuid.UUID, asOf time.Time) ([]uuid.UUID, error)
}

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	CoveredCategoryIDs(ctx context.Context, studentID uuid.UUID, asOf time.Time) ([]uuid.UUID, error)
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error)
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
