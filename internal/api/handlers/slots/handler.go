package slots

import (
	"errors"
	"net/http"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/middleware"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/timeslots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidClock       = "некорректный формат времени, ожидается HH:MM"
	msgInvalidSlotID      = "некорректный идентификатор слота"
	msgInvalidTeacherID   = "некорректный идентификатор преподавателя"
	msgActorRequired      = "не удалось определить вызывающего"
	msgSlotNotFound       = "слот не найден"
	msgTeacherNotFound    = "преподаватель не найден"
	msgTeacherInactive    = "преподаватель деактивирован"
	msgInvalidDayOfWeek   = "день недели должен быть от 0 (понедельник) до 6 (воскресенье)"
	msgInvalidTimeRange   = "начало слота должно быть раньше конца"
	msgSlotOverlap        = "слот пересекается с другим слотом преподавателя"
	msgAccessDenied       = "недостаточно прав для управления слотами преподавателя"
	msgConflict           = "не удалось сохранить слот из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	service TimeslotsService
	logger  Logger
}

func NewHandler(service TimeslotsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/slots
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := req.ToDomain()
	if err != nil {
		h.logger.Warn("POST /slots - Failed to parse clock values: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClock)
		return
	}

	created, err := h.createWithRetry(r, slot, actor)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.logger.Info("POST /slots - Slot created: slot_id=%s, teacher_id=%s", created.ID, created.TeacherID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(created))
}

// HandleUpdate PUT /api/v1/slots/{slotId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	slotID, err := handlers.PathUUID(r, "slotId")
	if err != nil {
		h.logger.Warn("PUT /slots - Invalid slot id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /slots/%s - Invalid request body: %v", slotID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	start, err := parseClock(req.StartTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidClock)
		return
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidClock)
		return
	}

	var updated *SlotResponse
	err = handlers.WithSerializableRetry(func() error {
		slot, execErr := h.service.Update(r.Context(), slotID, req.DayOfWeek, start, end, actor)
		if execErr != nil {
			return execErr
		}
		updated = FromDomain(slot)
		return nil
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.logger.Info("PUT /slots/%s - Slot updated", slotID)
	handlers.RespondJSON(w, http.StatusOK, updated)
}

// HandleDelete DELETE /api/v1/slots/{slotId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	slotID, err := handlers.PathUUID(r, "slotId")
	if err != nil {
		h.logger.Warn("DELETE /slots - Invalid slot id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.Delete(r.Context(), slotID, actor); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.logger.Info("DELETE /slots/%s - Slot deleted", slotID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleList GET /api/v1/teachers/{teacherId}/slots
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	teacherID, err := handlers.PathUUID(r, "teacherId")
	if err != nil {
		h.logger.Warn("GET /teachers/slots - Invalid teacher id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeacherID)
		return
	}

	list, err := h.service.ListByTeacher(r.Context(), teacherID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainList(list))
}

// Вспомогательные методы

func (h *Handler) createWithRetry(r *http.Request, slot *domain.SlotDefinition, actor domain.Actor) (*domain.SlotDefinition, error) {
	var created *domain.SlotDefinition

	err := handlers.WithSerializableRetry(func() error {
		var execErr error
		created, execErr = h.service.Create(r.Context(), slot, actor)
		return execErr
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, timeslots.ErrSlotNotFound):
		handlers.RespondNotFound(w, msgSlotNotFound)

	case errors.Is(err, timeslots.ErrTeacherNotFound):
		handlers.RespondNotFound(w, msgTeacherNotFound)

	case errors.Is(err, timeslots.ErrTeacherInactive):
		handlers.RespondBadRequest(w, msgTeacherInactive)

	case errors.Is(err, timeslots.ErrInvalidDayOfWeek):
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)

	case errors.Is(err, timeslots.ErrInvalidTimeRange):
		handlers.RespondBadRequest(w, msgInvalidTimeRange)

	case errors.Is(err, timeslots.ErrSlotOverlap):
		handlers.RespondConflict(w, msgSlotOverlap)

	case errors.Is(err, timeslots.ErrAccessDenied):
		handlers.RespondForbidden(w, msgAccessDenied)

	case handlers.IsSerializationError(err):
		h.logger.Warn("%s %s - Serialization conflict after retries", r.Method, r.URL.Path)
		handlers.RespondConflict(w, msgConflict)

	default:
		h.logger.Error("%s %s - Timeslots service error: %v", r.Method, r.URL.Path, err)
		handlers.RespondInternalError(w)
	}
}
