package generate_availability

import "errors"

var (
	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("generate_availability: teacher not found")

	// ErrCategoryNotFound возвращается, когда категория занятий не найдена
	ErrCategoryNotFound = errors.New("generate_availability: lesson category not found")

	// ErrInvalidRange возвращается, когда диапазон поиска некорректен
	ErrInvalidRange = errors.New("generate_availability: invalid search range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_availability: internal error")
)
