package create_lesson_request

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StudentID == uuid.Nil {
		return fmt.Errorf("%w: studentId is required", ErrInvalidInput)
	}

	if req.TeacherID == uuid.Nil {
		return fmt.Errorf("%w: teacherId is required", ErrInvalidInput)
	}

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

// countContainingWindows считает окна преподавателя на дату запроса,
// целиком содержащие запрошенный интервал. Заявка принимается, только
// когда такое окно ровно одно.
func countContainingWindows(slots []*domain.SlotDefinition, start, finish time.Time, loc *time.Location) int {
	day := domain.ISOWeekday(start.In(loc))

	count := 0
	for _, slot := range slots {
		if slot.DayOfWeek != day {
			continue
		}

		windowStart, windowFinish := slot.MaterializeOn(start, loc)
		if domain.Contains(windowStart, windowFinish, start, finish) {
			count++
		}
	}

	return count
}
