package lessons

import "errors"

var (
	// ErrLessonNotFound возвращается, когда занятие не найдено
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrAlreadyTerminated возвращается при отмене уже отменённого занятия
	ErrAlreadyTerminated = errors.New("lesson is already terminated")

	// ErrAccessDenied возвращается, когда у участника нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("lessons: internal error")
)
