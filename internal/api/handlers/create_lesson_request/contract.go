package create_lesson_request

import (
	"context"

	createLessonRequest "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_lesson_request"
)

type CreateLessonRequestUseCase interface {
	Execute(ctx context.Context, req *createLessonRequest.Request) (*createLessonRequest.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
