package create_lesson_request

import (
	"errors"
	"net/http"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/middleware"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/ledger"
	createLessonRequest "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_lesson_request"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgStudentOnly          = "операция доступна только ученику"
	msgInvalidTimeRange     = "начало окна должно быть раньше конца"
	msgLessonInPast         = "запрошенное окно начинается в прошлом"
	msgCategoryNotFound     = "категория занятий не найдена"
	msgCategoryInactive     = "категория занятий деактивирована"
	msgCategoryIsGroup      = "категория является групповой"
	msgTeacherNotFound      = "преподаватель не найден"
	msgTeacherInactive      = "преподаватель деактивирован"
	msgTeacherMismatch      = "преподаватель не ведёт эту категорию"
	msgOutsideAvailability  = "окно не входит целиком в доступный слот преподавателя"
	msgTeacherBusy          = "преподаватель занят в выбранное время"
	msgStudentBusy          = "ученик занят в выбранное время"
	msgStudentNotFound      = "ученик не найден"
	msgStudentInactive      = "ученик деактивирован"
	msgSubscriptionNotFound = "абонемент не найден"
	msgNotOwner             = "абонемент принадлежит другому ученику"
	msgSubscriptionExpired  = "срок действия абонемента истёк"
	msgNoLessonsLeft        = "кредиты абонемента исчерпаны"
	msgCategoryMismatch     = "абонемент не покрывает категорию занятия"
	msgAlreadyEnrolled      = "ученик уже записан на это занятие"
	msgNoSuitableSubs       = "нет подходящего абонемента для категории занятия"
	msgConflict             = "не удалось создать заявку из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	useCase CreateLessonRequestUseCase
	logger  Logger
}

func NewHandler(useCase CreateLessonRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/lessons/request
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok || actor.Role != domain.RoleStudent {
		h.logger.Warn("POST /lessons/request - Non-student actor")
		handlers.RespondForbidden(w, msgStudentOnly)
		return
	}

	var req CreateLessonRequestRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /lessons/request - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *createLessonRequest.Response
	err := handlers.WithSerializableRetry(func() error {
		var execErr error
		result, execErr = h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor.ID))
		return execErr
	})
	if err != nil {
		switch {
		case errors.Is(err, createLessonRequest.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createLessonRequest.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createLessonRequest.ErrLessonInPast):
			handlers.RespondBadRequest(w, msgLessonInPast)

		case errors.Is(err, createLessonRequest.ErrCategoryNotFound):
			handlers.RespondNotFound(w, msgCategoryNotFound)

		case errors.Is(err, createLessonRequest.ErrCategoryInactive):
			handlers.RespondBadRequest(w, msgCategoryInactive)

		case errors.Is(err, createLessonRequest.ErrCategoryIsGroup):
			handlers.RespondBadRequest(w, msgCategoryIsGroup)

		case errors.Is(err, createLessonRequest.ErrTeacherNotFound):
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, createLessonRequest.ErrTeacherInactive):
			handlers.RespondBadRequest(w, msgTeacherInactive)

		case errors.Is(err, createLessonRequest.ErrTeacherCategoryMismatch):
			handlers.RespondBadRequest(w, msgTeacherMismatch)

		case errors.Is(err, createLessonRequest.ErrOutsideAvailability):
			h.logger.Warn("POST /lessons/request - Window outside availability: student_id=%s", actor.ID)
			handlers.RespondBadRequest(w, msgOutsideAvailability)

		case errors.Is(err, createLessonRequest.ErrTeacherBusy):
			handlers.RespondConflict(w, msgTeacherBusy)

		case errors.Is(err, createLessonRequest.ErrStudentBusy):
			handlers.RespondConflict(w, msgStudentBusy)

		// Ошибки учёта абонементов usecase пробрасывает как есть
		case errors.Is(err, ledger.ErrStudentNotFound):
			handlers.RespondNotFound(w, msgStudentNotFound)

		case errors.Is(err, ledger.ErrStudentInactive):
			handlers.RespondBadRequest(w, msgStudentInactive)

		case errors.Is(err, ledger.ErrSubscriptionNotFound):
			handlers.RespondNotFound(w, msgSubscriptionNotFound)

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

		case errors.Is(err, ledger.ErrNoSuitableSubscription):
			handlers.RespondBadRequest(w, msgNoSuitableSubs)

		case handlers.IsSerializationError(err):
			h.logger.Warn("POST /lessons/request - Serialization conflict after retries")
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /lessons/request - Failed to create request: student_id=%s, error=%v", actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /lessons/request - Request created: lesson_id=%s, student_id=%s", result.ID, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
