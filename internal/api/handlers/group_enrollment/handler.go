package group_enrollment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/enrollment"
)

const (
	msgInvalidGroupID      = "некорректный идентификатор группы"
	msgInvalidStudentID    = "некорректный идентификатор ученика"
	msgGroupNotFound       = "группа не найдена"
	msgGroupInactive       = "группа деактивирована"
	msgStudentNotFound     = "ученик не найден"
	msgStudentInactive     = "ученик деактивирован"
	msgAlreadyMember       = "ученик уже состоит в группе"
	msgNotMember           = "ученик не состоит в группе"
	msgGroupFull           = "группа заполнена"
	msgCategoriesUncovered = "абонементы ученика не покрывают все категории занятий группы"
	msgConflict            = "не удалось изменить состав группы из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	service EnrollmentService
	logger  Logger
}

func NewHandler(service EnrollmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleEnroll POST /api/v1/groups/{groupId}/students/{studentId}
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	groupID, studentID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	err := handlers.WithSerializableRetry(func() error {
		return h.service.Enroll(r.Context(), studentID, groupID)
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.logger.Info("POST /groups/%s/students/%s - Student enrolled", groupID, studentID)
	handlers.RespondJSON(w, http.StatusCreated, nil)
}

// HandleRemove DELETE /api/v1/groups/{groupId}/students/{studentId}
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	groupID, studentID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), studentID, groupID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.logger.Info("DELETE /groups/%s/students/%s - Student removed", groupID, studentID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// Вспомогательные методы

func (h *Handler) pathIDs(w http.ResponseWriter, r *http.Request) (groupID, studentID uuid.UUID, ok bool) {
	groupID, err := handlers.PathUUID(r, "groupId")
	if err != nil {
		h.logger.Warn("%s %s - Invalid group id: %v", r.Method, r.URL.Path, err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return uuid.Nil, uuid.Nil, false
	}

	studentID, err = handlers.PathUUID(r, "studentId")
	if err != nil {
		h.logger.Warn("%s %s - Invalid student id: %v", r.Method, r.URL.Path, err)
		handlers.RespondBadRequest(w, msgInvalidStudentID)
		return uuid.Nil, uuid.Nil, false
	}

	return groupID, studentID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, enrollment.ErrGroupNotFound):
		handlers.RespondNotFound(w, msgGroupNotFound)

	case errors.Is(err, enrollment.ErrGroupInactive):
		handlers.RespondBadRequest(w, msgGroupInactive)

	case errors.Is(err, enrollment.ErrStudentNotFound):
		handlers.RespondNotFound(w, msgStudentNotFound)

	case errors.Is(err, enrollment.ErrStudentInactive):
		handlers.RespondBadRequest(w, msgStudentInactive)

	case errors.Is(err, enrollment.ErrAlreadyMember):
		handlers.RespondConflict(w, msgAlreadyMember)

	case errors.Is(err, enrollment.ErrNotMember):
		handlers.RespondNotFound(w, msgNotMember)

	case errors.Is(err, enrollment.ErrGroupFull):
		handlers.RespondConflict(w, msgGroupFull)

	case errors.Is(err, enrollment.ErrCategoriesNotCovered):
		handlers.RespondBadRequest(w, msgCategoriesUncovered)

	case handlers.IsSerializationError(err):
		h.logger.Warn("%s %s - Serialization conflict after retries", r.Method, r.URL.Path)
		handlers.RespondConflict(w, msgConflict)

	default:
		h.logger.Error("%s %s - Enrollment service error: %v", r.Method, r.URL.Path, err)
		handlers.RespondInternalError(w)
	}
}
