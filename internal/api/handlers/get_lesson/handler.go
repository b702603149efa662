package get_lesson

import (
	"errors"
	"net/http"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/lessons"
)

const (
	msgInvalidLessonID = "некорректный идентификатор занятия"
	msgLessonNotFound  = "занятие не найдено"
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

// Handle GET /api/v1/lessons/{lessonId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lessonID, err := handlers.PathUUID(r, "lessonId")
	if err != nil {
		h.logger.Warn("GET /lessons - Invalid lesson id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLessonID)
		return
	}

	lesson, err := h.service.GetByID(r.Context(), lessonID)
	if err != nil {
		if errors.Is(err, lessons.ErrLessonNotFound) {
			handlers.RespondNotFound(w, msgLessonNotFound)
			return
		}
		h.logger.Error("GET /lessons/%s - Failed to get lesson: %v", lessonID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(lesson))
}
