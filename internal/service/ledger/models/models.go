package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// SubscriptionStatusResponse модель статуса абонемента
type SubscriptionStatusResponse struct {
	ID             uuid.UUID   // ID абонемента
	StudentID      uuid.UUID   // ID ученика-владельца
	TemplateID     uuid.UUID   // ID шаблона
	TemplateName   string      // Название шаблона
	LessonCount    int         // Всего кредитов по шаблону
	LessonsLeft    int         // Осталось кредитов
	Price          float64     // Цена шаблона
	CategoryIDs    []uuid.UUID // Покрываемые категории
	ExpirationDate *time.Time  // Срок действия, nil — бессрочный
	CreatedAt      time.Time   // Время покупки
}

// FromDomainStatus конвертирует доменный статус абонемента в модель ответа
func FromDomainStatus(s *domain.SubscriptionStatus) *SubscriptionStatusResponse {
	return &SubscriptionStatusResponse{
		ID:             s.Subscription.ID,
		StudentID:      s.Subscription.StudentID,
		TemplateID:     s.Template.ID,
		TemplateName:   s.Template.Name,
		LessonCount:    s.Template.LessonCount,
		LessonsLeft:    s.LessonsLeft(),
		Price:          s.Template.Price,
		CategoryIDs:    s.Template.CategoryIDs,
		ExpirationDate: s.Subscription.ExpirationDate,
		CreatedAt:      s.Subscription.CreatedAt,
	}
}

// FromDomainStatusList конвертирует список статусов
func FromDomainStatusList(statuses []*domain.SubscriptionStatus) []*SubscriptionStatusResponse {
	out := make([]*SubscriptionStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, FromDomainStatus(s))
	}
	return out
}
