package create_lesson_request

import (
	"time"

	"github.com/google/uuid"
)

// Request модель заявки ученика на индивидуальное занятие
type Request struct {
	StudentID      uuid.UUID  // Ученик-инициатор
	TeacherID      uuid.UUID  // Запрошенный преподаватель
	Name           string     // Название занятия
	Description    *string    // Описание (опционально)
	CategoryID     uuid.UUID  // Индивидуальная категория
	StartTime      time.Time  // Начало запрошенного окна
	FinishTime     time.Time  // Конец запрошенного окна
	SubscriptionID *uuid.UUID // Абонемент для списания (nil — автоподбор)
}

// Response модель ответа с созданной заявкой
type Response struct {
	ID             uuid.UUID // ID созданной заявки (неподтверждённого занятия)
	Name           string    // Название
	CategoryID     uuid.UUID // Категория
	TeacherID      uuid.UUID // Преподаватель
	StartTime      time.Time // Начало
	FinishTime     time.Time // Конец
	IsConfirmed    bool      // Всегда false до ответа преподавателя
	SubscriptionID uuid.UUID // Абонемент, с которого списан кредит
	CreatedAt      time.Time // Время создания
}
