package subscriptions

import (
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/ledger/models"
)

// PurchaseRequest HTTP request model
type PurchaseRequest struct {
	StudentID  *uuid.UUID `json:"studentId,omitempty"` // Обязателен для администратора
	TemplateID uuid.UUID  `json:"templateId"`
	PaymentID  *uuid.UUID `json:"paymentId,omitempty"`
}

// SubscriptionResponse HTTP response model купленного абонемента
type SubscriptionResponse struct {
	ID             uuid.UUID  `json:"id"`
	StudentID      uuid.UUID  `json:"studentId"`
	TemplateID     uuid.UUID  `json:"templateId"`
	ExpirationDate *string    `json:"expirationDate,omitempty"`
	PaymentID      *uuid.UUID `json:"paymentId,omitempty"`
	CreatedAt      string     `json:"createdAt"`
}

// UseResponse HTTP response model списания кредита
type UseResponse struct {
	ID             uuid.UUID `json:"id"`
	LessonID       uuid.UUID `json:"lessonId"`
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	CreatedAt      string    `json:"createdAt"`
}

// StatusResponse HTTP response model статуса абонемента
type StatusResponse struct {
	ID             uuid.UUID   `json:"id"`
	StudentID      uuid.UUID   `json:"studentId"`
	TemplateID     uuid.UUID   `json:"templateId"`
	TemplateName   string      `json:"templateName"`
	LessonCount    int         `json:"lessonCount"`
	LessonsLeft    int         `json:"lessonsLeft"`
	Price          float64     `json:"price"`
	CategoryIDs    []uuid.UUID `json:"categoryIds"`
	ExpirationDate *string     `json:"expirationDate,omitempty"`
	CreatedAt      string      `json:"createdAt"`
}

// StatusListResponse HTTP response model со списком абонементов
type StatusListResponse struct {
	Subscriptions []StatusResponse `json:"subscriptions"`
}

// FromDomainSubscription конвертирует доменный абонемент в HTTP response
func FromDomainSubscription(s *domain.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:             s.ID,
		StudentID:      s.StudentID,
		TemplateID:     s.TemplateID,
		ExpirationDate: formatOptionalTime(s.ExpirationDate),
		PaymentID:      s.PaymentID,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}

// FromDomainUse конвертирует списание кредита в HTTP response
func FromDomainUse(u *domain.LessonSubscription) *UseResponse {
	return &UseResponse{
		ID:             u.ID,
		LessonID:       u.LessonID,
		SubscriptionID: u.SubscriptionID,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}

// FromStatusList конвертирует статусы абонементов в HTTP response
func FromStatusList(statuses []*models.SubscriptionStatusResponse) *StatusListResponse {
	out := make([]StatusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, StatusResponse{
			ID:             s.ID,
			StudentID:      s.StudentID,
			TemplateID:     s.TemplateID,
			TemplateName:   s.TemplateName,
			LessonCount:    s.LessonCount,
			LessonsLeft:    s.LessonsLeft,
			Price:          s.Price,
			CategoryIDs:    s.CategoryIDs,
			ExpirationDate: formatOptionalTime(s.ExpirationDate),
			CreatedAt:      s.CreatedAt.Format(time.RFC3339),
		})
	}
	return &StatusListResponse{Subscriptions: out}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
