package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error)
	GetSubscriptionByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)
	GetTemplateByID(ctx context.Context, id uuid.UUID) (*domain.SubscriptionTemplate, error)
	FindCheapestTemplateForCategory(ctx context.Context, categoryID uuid.UUID, asOf time.Time) (*domain.SubscriptionTemplate, error)
	GetStatus(ctx context.Context, subscriptionID uuid.UUID) (*domain.SubscriptionStatus, error)
	CreateUse(ctx context.Context, u *domain.LessonSubscription) (*domain.LessonSubscription, error)
	GetUse(ctx context.Context, subscriptionID, lessonID uuid.UUID) (*domain.LessonSubscription, error)
	HasActiveUseByStudent(ctx context.Context, studentID, lessonID uuid.UUID) (bool, error)
	CancelUse(ctx context.Context, useID uuid.UUID) error
	CancelUsesByLesson(ctx context.Context, lessonID uuid.UUID) (int64, error)
	ListActiveByStudent(ctx context.Context, studentID uuid.UUID, asOf time.Time) ([]*domain.SubscriptionStatus, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Subscription, error)
}

// LessonRepository интерфейс репозитория занятий
type LessonRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	HasStudentOverlap(ctx context.Context, studentID uuid.UUID, start, finish time.Time, excludeLessonID *uuid.UUID) (bool, error)
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error)
}

// GroupRepository интерфейс репозитория групп
type GroupRepository interface {
	IsStudentMember(ctx context.Context, studentID, groupID uuid.UUID) (bool, error)
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
