package create_lesson

import "errors"

var (
	// ErrCategoryNotFound возвращается, когда категория не найдена
	ErrCategoryNotFound = errors.New("create_lesson: lesson category not found")

	// ErrCategoryInactive возвращается, когда категория деактивирована
	ErrCategoryInactive = errors.New("create_lesson: lesson category is deactivated")

	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("create_lesson: group not found")

	// ErrGroupInactive возвращается, когда группа деактивирована
	ErrGroupInactive = errors.New("create_lesson: group is deactivated")

	// ErrGroupKindMismatch возвращается при несоответствии вида категории:
	// групповая категория требует группу, индивидуальная — запрещает её
	ErrGroupKindMismatch = errors.New("create_lesson: category kind does not match group presence")

	// ErrClassroomNotFound возвращается, когда зал не найден
	ErrClassroomNotFound = errors.New("create_lesson: classroom not found")

	// ErrClassroomInactive возвращается, когда зал деактивирован
	ErrClassroomInactive = errors.New("create_lesson: classroom is deactivated")

	// ErrClassroomBusy возвращается, когда зал занят в запрошенное окно
	ErrClassroomBusy = errors.New("create_lesson: classroom is busy")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("create_lesson: teacher not found")

	// ErrTeacherInactive возвращается, когда преподаватель деактивирован
	ErrTeacherInactive = errors.New("create_lesson: teacher is deactivated")

	// ErrTeacherCategoryMismatch возвращается, когда преподаватель не ведёт категорию
	ErrTeacherCategoryMismatch = errors.New("create_lesson: teacher does not teach this category")

	// ErrTeacherBusy возвращается, когда преподаватель занят в запрошенное окно
	ErrTeacherBusy = errors.New("create_lesson: teacher is busy")

	// ErrLessonInPast возвращается, когда занятие начинается в прошлом
	ErrLessonInPast = errors.New("create_lesson: lesson starts in the past")

	// ErrInvalidTimeRange возвращается, когда окно занятия некорректно
	ErrInvalidTimeRange = errors.New("create_lesson: start must be before finish")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_lesson: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_lesson: internal error")
)
