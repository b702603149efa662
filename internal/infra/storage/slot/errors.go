package slot

import "errors"

var (
	// ErrSlotNotFound слот расписания не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrBuildQuery ошибка построения SQL-запроса
	ErrBuildQuery = errors.New("failed to build query")

	// ErrExecQuery ошибка выполнения SQL-запроса
	ErrExecQuery = errors.New("failed to execute query")

	// ErrScanRow ошибка чтения строки результата
	ErrScanRow = errors.New("failed to scan row")
)
