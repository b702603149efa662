package deactivation

import (
	"context"

	"github.com/google/uuid"
)

type DeactivationService interface {
	DeactivateTeacher(ctx context.Context, teacherID uuid.UUID) error
	DeactivateStudent(ctx context.Context, studentID uuid.UUID) error
	DeactivateGroup(ctx context.Context, groupID uuid.UUID) error
	DeactivateClassroom(ctx context.Context, classroomID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
