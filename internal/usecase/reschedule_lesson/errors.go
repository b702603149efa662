package reschedule_lesson

import "errors"

var (
	// ErrLessonNotFound возвращается, когда занятие не найдено
	ErrLessonNotFound = errors.New("reschedule_lesson: lesson not found")

	// ErrLessonTerminated возвращается, когда занятие уже отменено
	ErrLessonTerminated = errors.New("reschedule_lesson: lesson is terminated")

	// ErrClassroomNotFound возвращается, когда новый зал не найден
	ErrClassroomNotFound = errors.New("reschedule_lesson: classroom not found")

	// ErrClassroomInactive возвращается, когда новый зал деактивирован
	ErrClassroomInactive = errors.New("reschedule_lesson: classroom is deactivated")

	// ErrClassroomBusy возвращается, когда зал занят в новое окно
	ErrClassroomBusy = errors.New("reschedule_lesson: classroom is busy")

	// ErrTeacherBusy возвращается, когда преподаватель занят в новое окно
	ErrTeacherBusy = errors.New("reschedule_lesson: teacher is busy")

	// ErrStudentBusy возвращается, когда ученик занят в новое окно
	ErrStudentBusy = errors.New("reschedule_lesson: student is busy")

	// ErrLessonInPast возвращается, когда новое окно начинается в прошлом
	ErrLessonInPast = errors.New("reschedule_lesson: lesson starts in the past")

	// ErrInvalidTimeRange возвращается, когда новое окно некорректно
	ErrInvalidTimeRange = errors.New("reschedule_lesson: start must be before finish")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_lesson: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_lesson: internal error")
)
