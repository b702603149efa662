package create_group_lesson

import (
	"context"

	createGroupLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_group_lesson"
)

type CreateGroupLessonUseCase interface {
	Execute(ctx context.Context, req *createGroupLesson.Request) (*createGroupLesson.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
