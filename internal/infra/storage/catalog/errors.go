package catalog

import "errors"

var (
	// ErrCategoryNotFound категория занятий не найдена
	ErrCategoryNotFound = errors.New("lesson category not found")

	// ErrClassroomNotFound зал не найден
	ErrClassroomNotFound = errors.New("classroom not found")

	// ErrTeacherNotFound преподаватель не найден
	ErrTeacherNotFound = errors.New("teacher not found")

	// ErrStudentNotFound ученик не найден
	ErrStudentNotFound = errors.New("student not found")

	// ErrBuildQuery ошибка построения SQL-запроса
	ErrBuildQuery = errors.New("failed to build query")

	// ErrExecQuery ошибка выполнения SQL-запроса
	ErrExecQuery = errors.New("failed to execute query")

	// ErrScanRow ошибка чтения строки результата
	ErrScanRow = errors.New("failed to scan row")
)
