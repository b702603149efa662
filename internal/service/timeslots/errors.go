package timeslots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("teacher not found")

	// ErrTeacherInactive возвращается, когда преподаватель деактивирован
	ErrTeacherInactive = errors.New("teacher is deactivated")

	// ErrInvalidDayOfWeek возвращается, когда день недели вне диапазона 0..6
	ErrInvalidDayOfWeek = errors.New("day of week must be between 0 and 6")

	// ErrInvalidTimeRange возвращается, когда окно слота некорректно
	ErrInvalidTimeRange = errors.New("slot start must be before slot end")

	// ErrSlotOverlap возвращается, когда слот пересекается с другим слотом преподавателя
	ErrSlotOverlap = errors.New("slot overlaps another slot of the teacher")

	// ErrAccessDenied возвращается, когда участник управляет чужим расписанием
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("timeslots: internal error")
)
