package cancel_lesson

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

type LessonsService interface {
	Cancel(ctx context.Context, lessonID uuid.UUID, actor domain.Actor) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
