package create_lesson

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.FinishTime.IsZero() {
		return fmt.Errorf("%w: startTime and finishTime are required", ErrInvalidInput)
	}

	if !req.StartTime.Before(req.FinishTime) {
		return ErrInvalidTimeRange
	}

	return nil
}

// validateNotInPast проверяет, что занятие не начинается в прошлом
func validateNotInPast(start, now time.Time) error {
	if start.Before(now) {
		return ErrLessonInPast
	}
	return nil
}
