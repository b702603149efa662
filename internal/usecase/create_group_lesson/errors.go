package create_group_lesson

import "errors"

var (
	// ErrCategoryNotFound возвращается, когда категория не найдена
	ErrCategoryNotFound = errors.New("create_group_lesson: lesson category not found")

	// ErrCategoryInactive возвращается, когда категория деактивирована
	ErrCategoryInactive = errors.New("create_group_lesson: lesson category is deactivated")

	// ErrCategoryNotGroup возвращается, когда категория индивидуальная
	ErrCategoryNotGroup = errors.New("create_group_lesson: category is not a group category")

	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("create_group_lesson: group not found")

	// ErrGroupInactive возвращается, когда группа деактивирована
	ErrGroupInactive = errors.New("create_group_lesson: group is deactivated")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("create_group_lesson: teacher not found")

	// ErrTeacherInactive возвращается, когда преподаватель деактивирован
	ErrTeacherInactive = errors.New("create_group_lesson: teacher is deactivated")

	// ErrNotGroupTeacher возвращается, когда преподаватель не привязан к группе
	ErrNotGroupTeacher = errors.New("create_group_lesson: teacher is not a member of the group")

	// ErrTeacherBusy возвращается, когда преподаватель занят в запрошенное окно
	ErrTeacherBusy = errors.New("create_group_lesson: teacher is busy")

	// ErrClassroomNotFound возвращается, когда зал не найден
	ErrClassroomNotFound = errors.New("create_group_lesson: classroom not found")

	// ErrClassroomInactive возвращается, когда зал деактивирован
	ErrClassroomInactive = errors.New("create_group_lesson: classroom is deactivated")

	// ErrClassroomBusy возвращается, когда зал занят в запрошенное окно
	ErrClassroomBusy = errors.New("create_group_lesson: classroom is busy")

	// ErrLessonInPast возвращается, когда занятие начинается в прошлом
	ErrLessonInPast = errors.New("create_group_lesson: lesson starts in the past")

	// ErrInvalidTimeRange возвращается, когда окно занятия некорректно
	ErrInvalidTimeRange = errors.New("create_group_lesson: start must be before finish")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_group_lesson: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_group_lesson: internal error")
)
