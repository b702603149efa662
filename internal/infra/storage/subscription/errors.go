package subscription

import "errors"

var (
	// ErrSubscriptionNotFound возвращается, когда абонемент не найден
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrTemplateNotFound возвращается, когда шаблон абонемента не найден
	ErrTemplateNotFound = errors.New("subscription template not found")

	// ErrUseNotFound возвращается, когда списание абонемента не найдено
	ErrUseNotFound = errors.New("subscription use not found")

	// ErrBuildQuery возвращается при ошибке сборки SQL-запроса
	ErrBuildQuery = errors.New("subscription repository: build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL-запроса
	ErrExecQuery = errors.New("subscription repository: execute query")

	// ErrScanRow возвращается при ошибке чтения строки результата
	ErrScanRow = errors.New("subscription repository: scan row")
)
