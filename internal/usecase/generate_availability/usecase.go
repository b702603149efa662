package generate_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
)

// UseCase use case генерации доступных окон для записи на занятие
type UseCase struct {
	slotRepo     SlotRepository
	lessonRepo   LessonRepository
	catalogRepo  CatalogRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	lessonRepo LessonRepository,
	catalogRepo CatalogRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		lessonRepo:   lessonRepo,
		catalogRepo:  catalogRepo,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case генерации доступных окон.
// Окна материализуются из еженедельных слотов в рабочем часовом поясе
// школы; окна, пересекающиеся с занятиями преподавателя, отбрасываются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateAvailability: teachers=%d, from=%s, to=%s",
		len(req.TeacherIDs), req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// Диапазон целиком в прошлом — пустой результат, не ошибка
	if req.DateTo.Before(now) {
		uc.logger.Info("GenerateAvailability: range is entirely in the past")
		return &Response{Windows: []Window{}}, nil
	}

	// 3. Собираем слоты по фильтрам
	slots, err := uc.collectSlots(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Материализуем кандидатов
	candidates := generateWindows(slots, req.DateFrom, req.DateTo, now, uc.location)

	// 5. Отбрасываем окна, пересекающиеся с занятиями преподавателя
	windows := make([]Window, 0, len(candidates))
	for _, w := range candidates {
		busy, err := uc.lessonRepo.HasTeacherOverlap(ctx, w.TeacherID, w.Start, w.Finish, nil)
		if err != nil {
			uc.logger.Error("GenerateAvailability: failed to check teacher overlap: %v", err)
			return nil, fmt.Errorf("%w: failed to check teacher overlap: %v", ErrInternal, err)
		}
		if busy {
			continue
		}

		windows = append(windows, Window{
			TeacherID:  w.TeacherID,
			StartTime:  w.Start,
			FinishTime: w.Finish,
		})
	}

	uc.logger.Info("GenerateAvailability: generated %d windows from %d candidates", len(windows), len(candidates))
	return &Response{Windows: windows}, nil
}

// collectSlots собирает слоты по фильтрам запроса
func (uc *UseCase) collectSlots(ctx context.Context, req *Request) ([]*domain.SlotDefinition, error) {
	// Фильтр по категории без явных преподавателей: слоты всех активных
	// преподавателей, ведущих категорию
	if len(req.TeacherIDs) == 0 {
		if req.CategoryID == nil {
			return nil, fmt.Errorf("%w: either teacherIds or categoryId is required", ErrInvalidInput)
		}

		if _, err := uc.catalogRepo.GetCategory(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, catalogRepo.ErrCategoryNotFound) {
				uc.logger.Warn("GenerateAvailability: category id=%s not found", *req.CategoryID)
				return nil, ErrCategoryNotFound
			}
			uc.logger.Error("GenerateAvailability: failed to get category: %v", err)
			return nil, fmt.Errorf("%w: failed to get category: %v", ErrInternal, err)
		}

		slots, err := uc.slotRepo.ListForCategory(ctx, *req.CategoryID)
		if err != nil {
			uc.logger.Error("GenerateAvailability: failed to list slots for category: %v", err)
			return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}
		return slots, nil
	}

	// Явный список преподавателей: каждый должен существовать и быть
	// активным; при фильтре по категории — вести её
	slots := make([]*domain.SlotDefinition, 0)
	for _, teacherID := range req.TeacherIDs {
		teacher, err := uc.catalogRepo.GetTeacher(ctx, teacherID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrTeacherNotFound) {
				uc.logger.Warn("GenerateAvailability: teacher id=%s not found", teacherID)
				return nil, ErrTeacherNotFound
			}
			uc.logger.Error("GenerateAvailability: failed to get teacher: %v", err)
			return nil, fmt.Errorf("%w: failed to get teacher: %v", ErrInternal, err)
		}

		if !teacher.IsActive() {
			continue
		}
		if req.CategoryID != nil && !teacher.Teaches(*req.CategoryID) {
			continue
		}

		teacherSlots, err := uc.slotRepo.ListByTeacher(ctx, teacherID)
		if err != nil {
			uc.logger.Error("GenerateAvailability: failed to list slots for teacher id=%s: %v", teacherID, err)
			return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}
		slots = append(slots, teacherSlots...)
	}

	return slots, nil
}
