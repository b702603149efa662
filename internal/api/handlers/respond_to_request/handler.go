package respond_to_request

import (
	"errors"
	"net/http"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/middleware"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	respondToRequest "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/respond_to_request"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLessonID    = "некорректный идентификатор заявки"
	msgTeacherOnly        = "операция доступна только преподавателю"
	msgLessonNotFound     = "заявка не найдена"
	msgNotARequest        = "занятие не является ожидающей заявкой"
	msgAccessDenied       = "заявка адресована другому преподавателю"
	msgClassroomRequired  = "для подтверждения заявки требуется зал"
	msgClassroomNotFound  = "зал не найден"
	msgClassroomInactive  = "зал деактивирован"
	msgClassroomBusy      = "зал занят в выбранное время"
	msgConflict           = "не удалось обработать заявку из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	useCase RespondToRequestUseCase
	logger  Logger
}

func NewHandler(useCase RespondToRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/lessons/request/{lessonId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok || actor.Role != domain.RoleTeacher {
		h.logger.Warn("PATCH /lessons/request - Non-teacher actor")
		handlers.RespondForbidden(w, msgTeacherOnly)
		return
	}

	lessonID, err := handlers.PathUUID(r, "lessonId")
	if err != nil {
		h.logger.Warn("PATCH /lessons/request - Invalid lesson id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLessonID)
		return
	}

	var req RespondRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /lessons/request/%s - Invalid request body: %v", lessonID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *respondToRequest.Response
	err = handlers.WithSerializableRetry(func() error {
		var execErr error
		result, execErr = h.useCase.Execute(r.Context(), req.ToUseCaseRequest(lessonID, actor.ID))
		return execErr
	})
	if err != nil {
		switch {
		case errors.Is(err, respondToRequest.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, respondToRequest.ErrLessonNotFound):
			handlers.RespondNotFound(w, msgLessonNotFound)

		case errors.Is(err, respondToRequest.ErrNotARequest):
			handlers.RespondBadRequest(w, msgNotARequest)

		case errors.Is(err, respondToRequest.ErrAccessDenied):
			h.logger.Warn("PATCH /lessons/request/%s - Access denied for teacher_id=%s", lessonID, actor.ID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, respondToRequest.ErrClassroomRequired):
			handlers.RespondBadRequest(w, msgClassroomRequired)

		case errors.Is(err, respondToRequest.ErrClassroomNotFound):
			handlers.RespondNotFound(w, msgClassroomNotFound)

		case errors.Is(err, respondToRequest.ErrClassroomInactive):
			handlers.RespondBadRequest(w, msgClassroomInactive)

		case errors.Is(err, respondToRequest.ErrClassroomBusy):
			handlers.RespondConflict(w, msgClassroomBusy)

		case handlers.IsSerializationError(err):
			h.logger.Warn("PATCH /lessons/request/%s - Serialization conflict after retries", lessonID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /lessons/request/%s - Failed to respond: teacher_id=%s, error=%v", lessonID, actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /lessons/request/%s - Responded: accepted=%t, teacher_id=%s", lessonID, result.IsConfirmed, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
