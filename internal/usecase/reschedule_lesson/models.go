package reschedule_lesson

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на перенос занятия администратором
type Request struct {
	LessonID    uuid.UUID  // Переносимое занятие
	StartTime   time.Time  // Новое начало занятия
	FinishTime  time.Time  // Новый конец занятия
	ClassroomID *uuid.UUID // Новый зал (nil — зал не меняется)
}

// Response модель ответа с перенесённым занятием
type Response struct {
	ID            uuid.UUID  // ID занятия
	Name          string     // Название
	Description   *string    // Описание
	CategoryID    uuid.UUID  // Категория
	StartTime     time.Time  // Новое начало
	FinishTime    time.Time  // Новый конец
	ClassroomID   *uuid.UUID // Зал после переноса
	GroupID       *uuid.UUID // Группа
	IsConfirmed   bool       // Подтверждено
	AllowAdjacent bool       // Разрешены соседние занятия
	CreatedAt     time.Time  // Время создания
	UpdatedAt     time.Time  // Время обновления
}
