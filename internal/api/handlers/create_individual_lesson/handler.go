package create_individual_lesson

import (
	"errors"
	"net/http"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/middleware"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/ledger"
	createIndividualLesson "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_individual_lesson"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgTeacherOnly           = "операция доступна только преподавателю"
	msgInvalidTimeRange      = "начало занятия должно быть раньше конца"
	msgLessonInPast          = "занятие начинается в прошлом"
	msgCategoryNotFound      = "категория занятий не найдена"
	msgCategoryInactive      = "категория занятий деактивирована"
	msgCategoryIsGroup       = "категория является групповой"
	msgTeacherNotFound       = "преподаватель не найден"
	msgTeacherInactive       = "преподаватель деактивирован"
	msgTeacherMismatch       = "преподаватель не ведёт эту категорию"
	msgTeacherBusy           = "преподаватель занят в выбранное время"
	msgStudentBusy           = "ученик занят в выбранное время"
	msgClassroomNotFound     = "зал не найден"
	msgClassroomInactive     = "зал деактивирован"
	msgClassroomBusy         = "зал занят в выбранное время"
	msgStudentNotFound       = "ученик не найден"
	msgStudentInactive       = "ученик деактивирован"
	msgSubscriptionNotFound  = "абонемент не найден"
	msgNotOwner              = "абонемент принадлежит другому ученику"
	msgSubscriptionExpired   = "срок действия абонемента истёк"
	msgNoLessonsLeft         = "кредиты абонемента исчерпаны"
	msgCategoryMismatch      = "абонемент не покрывает категорию занятия"
	msgAlreadyEnrolled       = "ученик уже записан на это занятие"
	msgNoSuitableSubs        = "нет подходящего абонемента для категории занятия"
	msgConflict              = "не удалось создать занятие из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	useCase CreateIndividualLessonUseCase
	logger  Logger
}

func NewHandler(useCase CreateIndividualLessonUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/lessons/individual
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok || actor.Role != domain.RoleTeacher {
		h.logger.Warn("POST /lessons/individual - Non-teacher actor")
		handlers.RespondForbidden(w, msgTeacherOnly)
		return
	}

	var req CreateIndividualLessonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /lessons/individual - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *createIndividualLesson.Response
	err := handlers.WithSerializableRetry(func() error {
		var execErr error
		result, execErr = h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor.ID))
		return execErr
	})
	if err != nil {
		switch {
		case errors.Is(err, createIndividualLesson.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createIndividualLesson.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createIndividualLesson.ErrLessonInPast):
			handlers.RespondBadRequest(w, msgLessonInPast)

		case errors.Is(err, createIndividualLesson.ErrCategoryNotFound):
			handlers.RespondNotFound(w, msgCategoryNotFound)

		case errors.Is(err, createIndividualLesson.ErrCategoryInactive):
			handlers.RespondBadRequest(w, msgCategoryInactive)

		case errors.Is(err, createIndividualLesson.ErrCategoryIsGroup):
			handlers.RespondBadRequest(w, msgCategoryIsGroup)

		case errors.Is(err, createIndividualLesson.ErrTeacherNotFound):
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, createIndividualLesson.ErrTeacherInactive):
			handlers.RespondBadRequest(w, msgTeacherInactive)

		case errors.Is(err, createIndividualLesson.ErrTeacherCategoryMismatch):
			handlers.RespondBadRequest(w, msgTeacherMismatch)

		case errors.Is(err, createIndividualLesson.ErrTeacherBusy):
			handlers.RespondConflict(w, msgTeacherBusy)

		case errors.Is(err, createIndividualLesson.ErrStudentBusy):
			handlers.RespondConflict(w, msgStudentBusy)

		case errors.Is(err, createIndividualLesson.ErrClassroomNotFound):
			handlers.RespondNotFound(w, msgClassroomNotFound)

		case errors.Is(err, createIndividualLesson.ErrClassroomInactive):
			handlers.RespondBadRequest(w, msgClassroomInactive)

		case errors.Is(err, createIndividualLesson.ErrClassroomBusy):
			handlers.RespondConflict(w, msgClassroomBusy)

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
			h.logger.Warn("POST /lessons/individual - Serialization conflict after retries")
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /lessons/individual - Failed to create lesson: teacher_id=%s, error=%v", actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /lessons/individual - Lesson created: lesson_id=%s, teacher_id=%s", result.ID, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
