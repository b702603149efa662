package reschedule_lesson

import (
	"errors"
	"net/http"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	rescheduleLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/reschedule_lesson"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLessonID    = "некорректный идентификатор занятия"
	msgInvalidTimeRange   = "начало занятия должно быть раньше конца"
	msgLessonInPast       = "новое окно начинается в прошлом"
	msgLessonNotFound     = "занятие не найдено"
	msgLessonTerminated   = "занятие отменено"
	msgClassroomNotFound  = "зал не найден"
	msgClassroomInactive  = "зал деактивирован"
	msgClassroomBusy      = "зал занят в новое время"
	msgTeacherBusy        = "преподаватель занят в новое время"
	msgStudentBusy        = "ученик занят в новое время"
	msgConflict           = "не удалось перенести занятие из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	useCase RescheduleLessonUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleLessonUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/lessons/{lessonId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lessonID, err := handlers.PathUUID(r, "lessonId")
	if err != nil {
		h.logger.Warn("PATCH /lessons/schedule - Invalid lesson id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLessonID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /lessons/%s/schedule - Invalid request body: %v", lessonID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *rescheduleLesson.Response
	err = handlers.WithSerializableRetry(func() error {
		var execErr error
		result, execErr = h.useCase.Execute(r.Context(), req.ToUseCaseRequest(lessonID))
		return execErr
	})
	if err != nil {
		switch {
		case errors.Is(err, rescheduleLesson.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, rescheduleLesson.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, rescheduleLesson.ErrLessonInPast):
			handlers.RespondBadRequest(w, msgLessonInPast)

		case errors.Is(err, rescheduleLesson.ErrLessonNotFound):
			handlers.RespondNotFound(w, msgLessonNotFound)

		case errors.Is(err, rescheduleLesson.ErrLessonTerminated):
			handlers.RespondBadRequest(w, msgLessonTerminated)

		case errors.Is(err, rescheduleLesson.ErrClassroomNotFound):
			handlers.RespondNotFound(w, msgClassroomNotFound)

		case errors.Is(err, rescheduleLesson.ErrClassroomInactive):
			handlers.RespondBadRequest(w, msgClassroomInactive)

		case errors.Is(err, rescheduleLesson.ErrClassroomBusy):
			handlers.RespondConflict(w, msgClassroomBusy)

		case errors.Is(err, rescheduleLesson.ErrTeacherBusy):
			handlers.RespondConflict(w, msgTeacherBusy)

		case errors.Is(err, rescheduleLesson.ErrStudentBusy):
			handlers.RespondConflict(w, msgStudentBusy)

		case handlers.IsSerializationError(err):
			h.logger.Warn("PATCH /lessons/%s/schedule - Serialization conflict after retries", lessonID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /lessons/%s/schedule - Failed to reschedule: %v", lessonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /lessons/%s/schedule - Lesson rescheduled", lessonID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
