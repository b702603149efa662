package cancel_lesson

import (
	"errors"
	"net/http"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/middleware"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/lessons"
)

const (
	msgInvalidLessonID  = "некорректный идентификатор занятия"
	msgActorRequired    = "не удалось определить вызывающего"
	msgLessonNotFound   = "занятие не найдено"
	msgAlreadyCancelled = "занятие уже отменено"
	msgAccessDenied     = "недостаточно прав для отмены занятия"
	msgConflict         = "не удалось отменить занятие из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	service LessonsService
	logger  Logger
}

func NewHandler(service LessonsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/lessons/{lessonId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /lessons/cancel - Actor missing in context")
		handlers.RespondError(w, http.StatusUnauthorized, msgActorRequired)
		return
	}

	lessonID, err := handlers.PathUUID(r, "lessonId")
	if err != nil {
		h.logger.Warn("PATCH /lessons/cancel - Invalid lesson id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLessonID)
		return
	}

	err = handlers.WithSerializableRetry(func() error {
		return h.service.Cancel(r.Context(), lessonID, actor)
	})
	if err != nil {
		switch {
		case errors.Is(err, lessons.ErrLessonNotFound):
			handlers.RespondNotFound(w, msgLessonNotFound)

		case errors.Is(err, lessons.ErrAlreadyTerminated):
			handlers.RespondBadRequest(w, msgAlreadyCancelled)

		case errors.Is(err, lessons.ErrAccessDenied):
			h.logger.Warn("PATCH /lessons/%s/cancel - Access denied: role=%s, actor_id=%s", lessonID, actor.Role, actor.ID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case handlers.IsSerializationError(err):
			h.logger.Warn("PATCH /lessons/%s/cancel - Serialization conflict after retries", lessonID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /lessons/%s/cancel - Failed to cancel: %v", lessonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /lessons/%s/cancel - Lesson cancelled: role=%s, actor_id=%s", lessonID, actor.Role, actor.ID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
