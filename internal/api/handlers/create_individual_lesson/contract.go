package create_individual_lesson

import (
	"context"

	createIndividualLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_individual_lesson"
)

type CreateIndividualLessonUseCase interface {
	Execute(ctx context.Context, req *createIndividualLesson.Request) (*createIndividualLesson.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
