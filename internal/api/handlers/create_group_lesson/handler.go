package create_group_lesson

import (
	"errors"
	"net/http"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/middleware"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	createGroupLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_group_lesson"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgTeacherOnly        = "операция доступна только преподавателю"
	msgInvalidTimeRange   = "начало занятия должно быть раньше конца"
	msgLessonInPast       = "занятие начинается в прошлом"
	msgCategoryNotFound   = "категория занятий не найдена"
	msgCategoryInactive   = "категория занятий деактивирована"
	msgCategoryNotGroup   = "категория не является групповой"
	msgGroupNotFound      = "группа не найдена"
	msgGroupInactive      = "группа деактивирована"
	msgTeacherNotFound    = "преподаватель не найден"
	msgTeacherInactive    = "преподаватель деактивирован"
	msgNotGroupTeacher    = "преподаватель не состоит в группе"
	msgTeacherBusy        = "преподаватель занят в выбранное время"
	msgClassroomNotFound  = "зал не найден"
	msgClassroomInactive  = "зал деактивирован"
	msgClassroomBusy      = "зал занят в выбранное время"
	msgConflict           = "не удалось создать занятие из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	useCase CreateGroupLessonUseCase
	logger  Logger
}

func NewHandler(useCase CreateGroupLessonUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/lessons/group
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok || actor.Role != domain.RoleTeacher {
		h.logger.Warn("POST /lessons/group - Non-teacher actor")
		handlers.RespondForbidden(w, msgTeacherOnly)
		return
	}

	var req CreateGroupLessonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /lessons/group - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *createGroupLesson.Response
	err := handlers.WithSerializableRetry(func() error {
		var execErr error
		result, execErr = h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor.ID))
		return execErr
	})
	if err != nil {
		switch {
		case errors.Is(err, createGroupLesson.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createGroupLesson.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createGroupLesson.ErrLessonInPast):
			handlers.RespondBadRequest(w, msgLessonInPast)

		case errors.Is(err, createGroupLesson.ErrCategoryNotFound):
			handlers.RespondNotFound(w, msgCategoryNotFound)

		case errors.Is(err, createGroupLesson.ErrCategoryInactive):
			handlers.RespondBadRequest(w, msgCategoryInactive)

		case errors.Is(err, createGroupLesson.ErrCategoryNotGroup):
			handlers.RespondBadRequest(w, msgCategoryNotGroup)

		case errors.Is(err, createGroupLesson.ErrGroupNotFound):
			handlers.RespondNotFound(w, msgGroupNotFound)

		case errors.Is(err, createGroupLesson.ErrGroupInactive):
			handlers.RespondBadRequest(w, msgGroupInactive)

		case errors.Is(err, createGroupLesson.ErrTeacherNotFound):
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, createGroupLesson.ErrTeacherInactive):
			handlers.RespondBadRequest(w, msgTeacherInactive)

		case errors.Is(err, createGroupLesson.ErrNotGroupTeacher):
			handlers.RespondForbidden(w, msgNotGroupTeacher)

		case errors.Is(err, createGroupLesson.ErrTeacherBusy):
			handlers.RespondConflict(w, msgTeacherBusy)

		case errors.Is(err, createGroupLesson.ErrClassroomNotFound):
			handlers.RespondNotFound(w, msgClassroomNotFound)

		case errors.Is(err, createGroupLesson.ErrClassroomInactive):
			handlers.RespondBadRequest(w, msgClassroomInactive)

		case errors.Is(err, createGroupLesson.ErrClassroomBusy):
			handlers.RespondConflict(w, msgClassroomBusy)

		case handlers.IsSerializationError(err):
			h.logger.Warn("POST /lessons/group - Serialization conflict after retries")
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /lessons/group - Failed to create lesson: teacher_id=%s, error=%v", actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /lessons/group - Lesson created: lesson_id=%s, group_id=%s", result.ID, result.GroupID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
