package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/ledger/models"
)

type LedgerService interface {
	Purchase(ctx context.Context, studentID, templateID uuid.UUID, paymentID *uuid.UUID, now time.Time) (*domain.Subscription, error)
	ReserveForLesson(ctx context.Context, studentID, lessonID uuid.UUID, subscriptionID *uuid.UUID, now time.Time) (*domain.LessonSubscription, error)
	Release(ctx context.Context, subscriptionID, lessonID uuid.UUID) error
	ListStudentSubscriptions(ctx context.Context, studentID uuid.UUID, now time.Time) ([]*models.SubscriptionStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
