package create_individual_lesson

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на создание индивидуального занятия преподавателем
type Request struct {
	TeacherID      uuid.UUID  // Преподаватель-инициатор
	StudentID      uuid.UUID  // Ученик
	Name           string     // Название занятия
	Description    *string    // Описание (опционально)
	CategoryID     uuid.UUID  // Индивидуальная категория
	StartTime      time.Time  // Начало занятия
	FinishTime     time.Time  // Конец занятия
	ClassroomID    *uuid.UUID // Зал (опционально)
	SubscriptionID *uuid.UUID // Абонемент для списания (nil — автоподбор)
	AllowAdjacent  bool       // Разрешать соседние занятия в зале
}

// Response модель ответа с созданным занятием
type Response struct {
	ID             uuid.UUID  // ID созданного занятия
	Name           string     // Название
	CategoryID     uuid.UUID  // Категория
	StartTime      time.Time  // Начало
	FinishTime     time.Time  // Конец
	ClassroomID    *uuid.UUID // Зал
	IsConfirmed    bool       // Подтверждено
	SubscriptionID uuid.UUID  // Абонемент, с которого списан кредит
	CreatedAt      time.Time  // Время создания
}
