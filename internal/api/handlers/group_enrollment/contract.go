package group_enrollment

import (
	"context"

	"github.com/google/uuid"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, groupID uuid.UUID) error
	Remove(ctx context.Context, studentID, groupID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
