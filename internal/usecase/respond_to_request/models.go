package respond_to_request

import (
	"time"

	"github.com/google/uuid"
)

// Request модель ответа преподавателя на заявку
type Request struct {
	LessonID    uuid.UUID  // Заявка (неподтверждённое занятие)
	TeacherID   uuid.UUID  // Отвечающий преподаватель
	Accept      bool       // true — подтвердить, false — отклонить
	ClassroomID *uuid.UUID // Зал (обязателен при подтверждении)
}

// Response модель результата ответа
type Response struct {
	ID          uuid.UUID  // ID занятия
	IsConfirmed bool       // Подтверждено
	Terminated  bool       // Отклонено
	ClassroomID *uuid.UUID // Назначенный зал
	StartTime   time.Time  // Начало
	FinishTime  time.Time  // Конец
}
