package create_lesson_request

import "errors"

var (
	// ErrCategoryNotFound возвращается, когда категория не найдена
	ErrCategoryNotFound = errors.New("create_lesson_request: lesson category not found")

	// ErrCategoryInactive возвращается, когда категория деактивирована
	ErrCategoryInactive = errors.New("create_lesson_request: lesson category is deactivated")

	// ErrCategoryIsGroup возвращается, когда категория предназначена для групповых занятий
	ErrCategoryIsGroup = errors.New("create_lesson_request: category is a group category")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("create_lesson_request: teacher not found")

	// ErrTeacherInactive возвращается, когда преподаватель деактивирован
	ErrTeacherInactive = errors.New("create_lesson_request: teacher is deactivated")

	// ErrTeacherCategoryMismatch возвращается, когда преподаватель не ведёт категорию
	ErrTeacherCategoryMismatch = errors.New("create_lesson_request: teacher does not teach this category")

	// ErrOutsideAvailability возвращается, когда запрошенное окно не лежит
	// целиком внутри ровно одного доступного окна преподавателя
	ErrOutsideAvailability = errors.New("create_lesson_request: window is outside teacher availability")

	// ErrTeacherBusy возвращается, когда преподаватель занят в запрошенное окно
	ErrTeacherBusy = errors.New("create_lesson_request: teacher is busy")

	// ErrStudentBusy возвращается, когда ученик занят в запрошенное окно
	ErrStudentBusy = errors.New("create_lesson_request: student is busy")

	// ErrLessonInPast возвращается, когда запрошенное окно в прошлом
	ErrLessonInPast = errors.New("create_lesson_request: window starts in the past")

	// ErrInvalidTimeRange возвращается, когда окно некорректно
	ErrInvalidTimeRange = errors.New("create_lesson_request: start must be before finish")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_lesson_request: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_lesson_request: internal error")
)
