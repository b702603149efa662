package respond_to_request

import (
	"context"

	respondToRequest "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/respond_to_request"
)

type RespondToRequestUseCase interface {
	Execute(ctx context.Context, req *respondToRequest.Request) (*respondToRequest.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
