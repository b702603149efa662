package create_group_lesson

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на создание группового занятия преподавателем
type Request struct {
	TeacherID     uuid.UUID  // Преподаватель-инициатор, участник группы
	GroupID       uuid.UUID  // Группа
	Name          string     // Название занятия
	Description   *string    // Описание (опционально)
	CategoryID    uuid.UUID  // Групповая категория
	StartTime     time.Time  // Начало занятия
	FinishTime    time.Time  // Конец занятия
	ClassroomID   *uuid.UUID // Зал (опционально)
	AllowAdjacent bool       // Разрешать соседние занятия в зале
}

// Response модель ответа с созданным занятием
type Response struct {
	ID          uuid.UUID  // ID созданного занятия
	Name        string     // Название
	CategoryID  uuid.UUID  // Категория
	GroupID     uuid.UUID  // Группа
	StartTime   time.Time  // Начало
	FinishTime  time.Time  // Конец
	ClassroomID *uuid.UUID // Зал
	IsConfirmed bool       // Подтверждено
	CreatedAt   time.Time  // Время создания
}
