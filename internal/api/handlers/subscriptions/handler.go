package subscriptions

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/middleware"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/ledger"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidSubID         = "некорректный идентификатор абонемента"
	msgInvalidLessonID      = "некорректный идентификатор занятия"
	msgInvalidStudentID     = "некорректный идентификатор ученика"
	msgActorRequired        = "не удалось определить вызывающего"
	msgStudentRequired      = "не указан ученик"
	msgAccessDenied         = "доступ к абонементам другого ученика запрещён"
	msgStudentNotFound      = "ученик не найден"
	msgStudentInactive      = "ученик деактивирован"
	msgTemplateNotFound     = "шаблон абонемента не найден"
	msgTemplateExpired      = "шаблон абонемента больше не продаётся"
	msgSubscriptionNotFound = "абонемент не найден"
	msgUseNotFound          = "списание абонемента на занятие не найдено"
	msgNotOwner             = "абонемент принадлежит другому ученику"
	msgSubscriptionExpired  = "срок действия абонемента истёк"
	msgNoLessonsLeft        = "кредиты абонемента исчерпаны"
	msgCategoryMismatch     = "абонемент не покрывает категорию занятия"
	msgAlreadyEnrolled      = "ученик уже записан на это занятие"
	msgNotGroupMember       = "ученик не состоит в группе занятия"
	msgLessonNotFound       = "занятие не найдено"
	msgLessonTerminated     = "занятие отменено"
	msgLessonStarted        = "занятие уже началось"
	msgStudentBusy          = "ученик занят в окно занятия"
	msgConflict             = "не удалось выполнить операцию из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	service LedgerService
	logger  Logger
}

func NewHandler(service LedgerService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandlePurchase POST /api/v1/subscriptions
func (h *Handler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	var req PurchaseRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /subscriptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Ученик покупает себе, администратор — любому ученику
	studentID, err := h.resolveStudent(actor, req.StudentID)
	if err != nil {
		h.logger.Warn("POST /subscriptions - Failed to resolve student: role=%s, actor_id=%s", actor.Role, actor.ID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	created, err := h.service.Purchase(r.Context(), studentID, req.TemplateID, req.PaymentID, time.Now())
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}

	h.logger.Info("POST /subscriptions - Subscription purchased: subscription_id=%s, student_id=%s", created.ID, studentID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainSubscription(created))
}

// HandleReserve POST /api/v1/subscriptions/{subscriptionId}/lessons/{lessonId}
func (h *Handler) HandleReserve(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok || actor.Role != domain.RoleStudent {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	subscriptionID, err := handlers.PathUUID(r, "subscriptionId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSubID)
		return
	}

	lessonID, err := handlers.PathUUID(r, "lessonId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidLessonID)
		return
	}

	var use *UseResponse
	err = handlers.WithSerializableRetry(func() error {
		created, execErr := h.service.ReserveForLesson(r.Context(), actor.ID, lessonID, &subscriptionID, time.Now())
		if execErr != nil {
			return execErr
		}
		use = FromDomainUse(created)
		return nil
	})
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}

	h.logger.Info("POST /subscriptions/%s/lessons/%s - Credit reserved: student_id=%s", subscriptionID, lessonID, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, use)
}

// HandleRelease PATCH /api/v1/subscriptions/{subscriptionId}/lessons/{lessonId}/cancel
func (h *Handler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	subscriptionID, err := handlers.PathUUID(r, "subscriptionId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSubID)
		return
	}

	lessonID, err := handlers.PathUUID(r, "lessonId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidLessonID)
		return
	}

	if err := h.service.Release(r.Context(), subscriptionID, lessonID); err != nil {
		h.respondLedgerError(w, r, err)
		return
	}

	h.logger.Info("PATCH /subscriptions/%s/lessons/%s/cancel - Credit released", subscriptionID, lessonID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleList GET /api/v1/students/{studentId}/subscriptions
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	studentID, err := handlers.PathUUID(r, "studentId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStudentID)
		return
	}

	// Ученик видит только свои абонементы
	if actor.Role == domain.RoleStudent && actor.ID != studentID {
		h.logger.Warn("GET /students/%s/subscriptions - Access denied for student_id=%s", studentID, actor.ID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	statuses, err := h.service.ListStudentSubscriptions(r.Context(), studentID, time.Now())
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromStatusList(statuses))
}

// Вспомогательные методы

func (h *Handler) resolveStudent(actor domain.Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if actor.Role == domain.RoleStudent {
		return actor.ID, nil
	}
	if actor.IsAdmin() && requested != nil {
		return *requested, nil
	}
	return uuid.Nil, errors.New(msgStudentRequired)
}

func (h *Handler) respondLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrStudentNotFound):
		handlers.RespondNotFound(w, msgStudentNotFound)

	case errors.Is(err, ledger.ErrStudentInactive):
		handlers.RespondBadRequest(w, msgStudentInactive)

	case errors.Is(err, ledger.ErrTemplateNotFound):
		handlers.RespondNotFound(w, msgTemplateNotFound)

	case errors.Is(err, ledger.ErrTemplateExpired):
		handlers.RespondBadRequest(w, msgTemplateExpired)

	case errors.Is(err, ledger.ErrSubscriptionNotFound):
		handlers.RespondNotFound(w, msgSubscriptionNotFound)

	case errors.Is(err, ledger.ErrUseNotFound):
		handlers.RespondNotFound(w, msgUseNotFound)

	case errors.Is(err, ledger.ErrNotOwner):
		handlers.RespondForbidden(w, msgNotOwner)

	case errors.Is(err, ledger.ErrSubscriptionExpired):
		handlers.RespondBadRequest(w, msgSubscriptionExpired)

	case errors.Is(err, ledger.ErrNoLessonsLeft):
		handlers.RespondBadRequest(w, msgNoLessonsLeft)

	case errors.Is(err, ledger.ErrCategoryMismatch):
		handlers.RespondBadRequest(w, msgCategoryMismatch)

	case errors.Is(err, ledger.ErrAlreadyEnrolled):
		handlers.RespondConflict(w, msgAlreadyEnrolled)

	case errors.Is(err, ledger.ErrNotGroupMember):
		handlers.RespondForbidden(w, msgNotGroupMember)

	case errors.Is(err, ledger.ErrLessonNotFound):
		handlers.RespondNotFound(w, msgLessonNotFound)

	case errors.Is(err, ledger.ErrLessonTerminated):
		handlers.RespondBadRequest(w, msgLessonTerminated)

	case errors.Is(err, ledger.ErrLessonStarted):
		handlers.RespondBadRequest(w, msgLessonStarted)

	case errors.Is(err, ledger.ErrStudentBusy):
		handlers.RespondConflict(w, msgStudentBusy)

	case handlers.IsSerializationError(err):
		h.logger.Warn("%s %s - Serialization conflict after retries", r.Method, r.URL.Path)
		handlers.RespondConflict(w, msgConflict)

	default:
		h.logger.Error("%s %s - Ledger service error: %v", r.Method, r.URL.Path, err)
		handlers.RespondInternalError(w)
	}
}
