package handlers

import (
	"errors"
	"time"

	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/txmanager"
)

// maxSerializationAttempts предельное число попыток выполнить операцию,
// завершившуюся конфликтом сериализации
const maxSerializationAttempts = 3

// retryBackoff пауза между повторными попытками
const retryBackoff = 25 * time.Millisecond

// WithSerializableRetry выполняет операцию, повторяя её при конфликте
// сериализации. Исчерпав попытки, возвращает последнюю ошибку:
// обработчик отдаёт по ней 409 Conflict.
func WithSerializableRetry(fn func() error) error {
	var err error

	for attempt := 0; attempt < maxSerializationAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(retryBackoff)
		}

		err = fn()
		if err == nil || !errors.Is(err, txmanager.ErrSerialization) {
			return err
		}
	}

	return err
}

// IsSerializationError сообщает, что ошибка вызвана конфликтом сериализации
func IsSerializationError(err error) bool {
	return errors.Is(err, txmanager.ErrSerialization)
}
