package generate_availability

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса доступных окон
type Request struct {
	TeacherIDs []uuid.UUID // Фильтр по преподавателям (опционально)
	CategoryID *uuid.UUID  // Фильтр по категории занятий (опционально)
	DateFrom   time.Time   // Начало диапазона поиска
	DateTo     time.Time   // Конец диапазона поиска (включительно по окнам)
}

// Window доступное окно преподавателя
type Window struct {
	TeacherID  uuid.UUID // ID преподавателя
	StartTime  time.Time // Начало окна
	FinishTime time.Time // Конец окна
}

// Response модель ответа со списком доступных окон
type Response struct {
	Windows []Window // Окна, отсортированные по началу, затем по преподавателю
}
