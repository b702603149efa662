package create_individual_lesson

import "errors"

var (
	// ErrCategoryNotFound возвращается, когда категория не найдена
	ErrCategoryNotFound = errors.New("create_individual_lesson: lesson category not found")

	// ErrCategoryInactive возвращается, когда категория деактивирована
	ErrCategoryInactive = errors.New("create_individual_lesson: lesson category is deactivated")

	// ErrCategoryIsGroup возвращается, когда категория предназначена для групповых занятий
	ErrCategoryIsGroup = errors.New("create_individual_lesson: category is a group category")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("create_individual_lesson: teacher not found")

	// ErrTeacherInactive возвращается, когда преподаватель деактивирован
	ErrTeacherInactive = errors.New("create_individual_lesson: teacher is deactivated")

	// ErrTeacherCategoryMismatch возвращается, когда преподаватель не ведёт категорию
	ErrTeacherCategoryMismatch = errors.New("create_individual_lesson: teacher does not teach this category")

	// ErrTeacherBusy возвращается, когда преподаватель занят в запрошенное окно
	ErrTeacherBusy = errors.New("create_individual_lesson: teacher is busy")

	// ErrStudentBusy возвращается, когда ученик занят в запрошенное окно
	ErrStudentBusy = errors.New("create_individual_lesson: student is busy")

	// ErrClassroomNotFound возвращается, когда зал не найден
	ErrClassroomNotFound = errors.New("create_individual_lesson: classroom not found")

	// ErrClassroomInactive возвращается, когда зал деактивирован
	ErrClassroomInactive = errors.New("create_individual_lesson: classroom is deactivated")

	// ErrClassroomBusy возвращается, когда зал занят в запрошенное окно
	ErrClassroomBusy = errors.New("create_individual_lesson: classroom is busy")

	// ErrLessonInPast возвращается, когда занятие начинается в прошлом
	ErrLessonInPast = errors.New("create_individual_lesson: lesson starts in the past")

	// ErrInvalidTimeRange возвращается, когда окно занятия некорректно
	ErrInvalidTimeRange = errors.New("create_individual_lesson: start must be before finish")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_individual_lesson: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_individual_lesson: internal error")
)
