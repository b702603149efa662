package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers"
	generateAvailability "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/generate_availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD или RFC3339"
	msgInvalidRange       = "некорректный диапазон поиска"
	msgTeacherNotFound    = "преподаватель не найден"
	msgCategoryNotFound   = "категория занятий не найдена"
)

type Handler struct {
	useCase GenerateAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GenerateAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/search/available
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/search/available - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /slots/search/available - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateAvailability.ErrInvalidInput),
			errors.Is(err, generateAvailability.ErrInvalidRange):
			h.logger.Warn("POST /slots/search/available - Invalid search range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, generateAvailability.ErrTeacherNotFound):
			h.logger.Warn("POST /slots/search/available - Teacher not found")
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, generateAvailability.ErrCategoryNotFound):
			h.logger.Warn("POST /slots/search/available - Category not found")
			handlers.RespondNotFound(w, msgCategoryNotFound)

		default:
			h.logger.Error("POST /slots/search/available - Failed to generate availability: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/search/available - Generated %d windows", len(result.Windows))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
