package get_lesson

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

type LessonsService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
