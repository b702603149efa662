package deactivation

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/deactivation"
)

const (
	msgInvalidID          = "некорректный идентификатор"
	msgNotFound           = "объект не найден"
	msgAlreadyDeactivated = "объект уже деактивирован"
	msgConflict           = "не удалось выполнить деактивацию из-за конкурентного изменения, повторите запрос"
)

type Handler struct {
	service DeactivationService
	logger  Logger
}

func NewHandler(service DeactivationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleTeacher PATCH /api/v1/teachers/{id}/deactivate
func (h *Handler) HandleTeacher(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.DeactivateTeacher)
}

// HandleStudent PATCH /api/v1/students/{id}/deactivate
func (h *Handler) HandleStudent(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.DeactivateStudent)
}

// HandleGroup PATCH /api/v1/groups/{id}/deactivate
func (h *Handler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.DeactivateGroup)
}

// HandleClassroom PATCH /api/v1/classrooms/{id}/deactivate
func (h *Handler) HandleClassroom(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.DeactivateClassroom)
}

// handle выполняет каскад деактивации с повторами при конфликтах сериализации
func (h *Handler) handle(w http.ResponseWriter, r *http.Request, deactivate func(context.Context, uuid.UUID) error) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("%s %s - Invalid id: %v", r.Method, r.URL.Path, err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	err = handlers.WithSerializableRetry(func() error {
		return deactivate(r.Context(), id)
	})
	if err != nil {
		switch {
		case errors.Is(err, deactivation.ErrTeacherNotFound),
			errors.Is(err, deactivation.ErrStudentNotFound),
			errors.Is(err, deactivation.ErrGroupNotFound),
			errors.Is(err, deactivation.ErrClassroomNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, deactivation.ErrAlreadyDeactivated):
			handlers.RespondBadRequest(w, msgAlreadyDeactivated)

		case handlers.IsSerializationError(err):
			h.logger.Warn("%s %s - Serialization conflict after retries", r.Method, r.URL.Path)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("%s %s - Deactivation failed: %v", r.Method, r.URL.Path, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s %s - Deactivated: id=%s", r.Method, r.URL.Path, id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
