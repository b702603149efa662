package get_available_slots

import (
	"context"

	generateAvailability "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/generate_availability"
)

type GenerateAvailabilityUseCase interface {
	Execute(ctx context.Context, req *generateAvailability.Request) (*generateAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
