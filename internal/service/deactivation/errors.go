package deactivation

import "errors"

var (
	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("teacher not found")

	// ErrStudentNotFound возвращается, когда ученик не найден
	ErrStudentNotFound = errors.New("student not found")

	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("group not found")

	// ErrClassroomNotFound возвращается, когда зал не найден
	ErrClassroomNotFound = errors.New("classroom not found")

	// ErrAlreadyDeactivated возвращается при повторной деактивации
	ErrAlreadyDeactivated = errors.New("already deactivated")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("deactivation: internal error")
)
