package reschedule_lesson

import (
	"context"

	rescheduleLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/reschedule_lesson"
)

type RescheduleLessonUseCase interface {
	Execute(ctx context.Context, req *rescheduleLesson.Request) (*rescheduleLesson.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
