package create_lesson

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на создание занятия администратором
type Request struct {
	Name          string      // Название занятия
	Description   *string     // Описание (опционально)
	CategoryID    uuid.UUID   // Категория занятия
	StartTime     time.Time   // Начало занятия
	FinishTime    time.Time   // Конец занятия
	ClassroomID   *uuid.UUID  // Зал (опционально)
	GroupID       *uuid.UUID  // Группа (обязательна для групповой категории)
	TeacherIDs    []uuid.UUID // Преподаватели занятия (опционально)
	AllowAdjacent bool        // Разрешать соседние занятия в зале
}

// Response модель ответа с созданным занятием
type Response struct {
	ID            uuid.UUID  // ID созданного занятия
	Name          string     // Название
	Description   *string    // Описание
	CategoryID    uuid.UUID  // Категория
	StartTime     time.Time  // Начало
	FinishTime    time.Time  // Конец
	ClassroomID   *uuid.UUID // Зал
	GroupID       *uuid.UUID // Группа
	IsConfirmed   bool       // Подтверждено
	AllowAdjacent bool       // Разрешены соседние занятия
	CreatedAt     time.Time  // Время создания
	UpdatedAt     time.Time  // Время обновления
}
