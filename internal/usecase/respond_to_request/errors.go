package respond_to_request

import "errors"

var (
	// ErrLessonNotFound возвращается, когда заявка не найдена
	ErrLessonNotFound = errors.New("respond_to_request: lesson not found")

	// ErrNotARequest возвращается, когда занятие уже подтверждено или отменено
	ErrNotARequest = errors.New("respond_to_request: lesson is not a pending request")

	// ErrAccessDenied возвращается, когда отвечает не привязанный преподаватель
	ErrAccessDenied = errors.New("respond_to_request: access denied")

	// ErrClassroomRequired возвращается, когда при подтверждении не указан зал
	ErrClassroomRequired = errors.New("respond_to_request: classroom is required to accept")

	// ErrClassroomNotFound возвращается, когда зал не найден
	ErrClassroomNotFound = errors.New("respond_to_request: classroom not found")

	// ErrClassroomInactive возвращается, когда зал деактивирован
	ErrClassroomInactive = errors.New("respond_to_request: classroom is deactivated")

	// ErrClassroomBusy возвращается, когда зал занят в окно заявки
	ErrClassroomBusy = errors.New("respond_to_request: classroom is busy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("respond_to_request: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("respond_to_request: internal error")
)
