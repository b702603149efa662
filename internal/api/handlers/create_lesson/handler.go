package create_lesson

import (
	"errors"
	"net/http"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	createLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_lesson"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimeRange   = "начало занятия должно быть раньше конца"
	msgLessonInPast       = "занятие начинается в прошлом"
	msgCategoryNotFound   = "категория занятий не найдена"
	msgCategoryInactive   = "категория занятий деактивирована"
	msgGroupKindMismatch  = "вид категории не соответствует наличию группы"
	msgGroupNotFound      = "группа не найдена"
	msgGroupInactive      = "группа деактивирована"
	msgClassroomNotFound  = "зал не найден"
	msgClassroomInactive  = "зал деактивирован"
	msgClassroomBusy      = "зал занят в выбранное время"
	msgTeacherNotFound    = "преподаватель не найден"
	msgTeacherInactive    = "преподаватель деактивирован"
	msgTeacherMismatch    = "преподаватель не ведёт эту категорию"
	msgTeacherBusy        = "преподаватель занят в выбранное время"
	msgConflict           = "не удалось создать занятие из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	useCase CreateLessonUseCase
	logger  Logger
}

func NewHandler(useCase CreateLessonUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/lessons
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateLessonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /lessons - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *createLesson.Response
	err := handlers.WithSerializableRetry(func() error {
		var execErr error
		result, execErr = h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
		return execErr
	})
	if err != nil {
		switch {
		case errors.Is(err, createLesson.ErrInvalidInput):
			h.logger.Warn("POST /lessons - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createLesson.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createLesson.ErrLessonInPast):
			handlers.RespondBadRequest(w, msgLessonInPast)

		case errors.Is(err, createLesson.ErrCategoryNotFound):
			handlers.RespondNotFound(w, msgCategoryNotFound)

		case errors.Is(err, createLesson.ErrCategoryInactive):
			handlers.RespondBadRequest(w, msgCategoryInactive)

		case errors.Is(err, createLesson.ErrGroupKindMismatch):
			handlers.RespondBadRequest(w, msgGroupKindMismatch)

		case errors.Is(err, createLesson.ErrGroupNotFound):
			handlers.RespondNotFound(w, msgGroupNotFound)

		case errors.Is(err, createLesson.ErrGroupInactive):
			handlers.RespondBadRequest(w, msgGroupInactive)

		case errors.Is(err, createLesson.ErrClassroomNotFound):
			handlers.RespondNotFound(w, msgClassroomNotFound)

		case errors.Is(err, createLesson.ErrClassroomInactive):
			handlers.RespondBadRequest(w, msgClassroomInactive)

		case errors.Is(err, createLesson.ErrClassroomBusy):
			h.logger.Warn("POST /lessons - Classroom busy")
			handlers.RespondConflict(w, msgClassroomBusy)

		case errors.Is(err, createLesson.ErrTeacherNotFound):
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, createLesson.ErrTeacherInactive):
			handlers.RespondBadRequest(w, msgTeacherInactive)

		case errors.Is(err, createLesson.ErrTeacherCategoryMismatch):
			handlers.RespondBadRequest(w, msgTeacherMismatch)

		case errors.Is(err, createLesson.ErrTeacherBusy):
			h.logger.Warn("POST /lessons - Teacher busy")
			handlers.RespondConflict(w, msgTeacherBusy)

		case handlers.IsSerializationError(err):
			h.logger.Warn("POST /lessons - Serialization conflict after retries")
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /lessons - Failed to create lesson: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /lessons - Lesson created: lesson_id=%s", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
