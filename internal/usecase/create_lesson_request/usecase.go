package create_lesson_request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
)

// UseCase use case заявки ученика на индивидуальное занятие.
// Заявка — неподтверждённое занятие без зала; кредит абонемента
// списывается сразу при создании, ответ преподавателя решает судьбу
// занятия, но не кредита.
type UseCase struct {
	lessonRepo   LessonRepository
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	ledger       LedgerService
	notifier     Notifier
	txManager    TransactionManager
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	lessonRepo LessonRepository,
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	ledger LedgerService,
	notifier Notifier,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		lessonRepo:   lessonRepo,
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		ledger:       ledger,
		notifier:     notifier,
		txManager:    txManager,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания заявки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateLessonRequest: student=%s, teacher=%s, start=%s",
		req.StudentID, req.TeacherID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateLessonRequest: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if req.StartTime.Before(now) {
		uc.logger.Warn("CreateLessonRequest: window starts in the past")
		return nil, ErrLessonInPast
	}

	// 3. Категория существует, активна и индивидуальна
	category, err := uc.catalogRepo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrCategoryNotFound) {
			uc.logger.Warn("CreateLessonRequest: category id=%s not found", req.CategoryID)
			return nil, ErrCategoryNotFound
		}
		uc.logger.Error("CreateLessonRequest: failed to get category: %v", err)
		return nil, fmt.Errorf("%w: failed to get category: %v", ErrInternal, err)
	}
	if !category.IsActive() {
		uc.logger.Warn("CreateLessonRequest: category id=%s is deactivated", req.CategoryID)
		return nil, ErrCategoryInactive
	}
	if category.IsGroup {
		uc.logger.Warn("CreateLessonRequest: category id=%s is a group category", req.CategoryID)
		return nil, ErrCategoryIsGroup
	}

	// 4. Преподаватель существует, активен и ведёт категорию
	teacher, err := uc.catalogRepo.GetTeacher(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTeacherNotFound) {
			uc.logger.Warn("CreateLessonRequest: teacher id=%s not found", req.TeacherID)
			return nil, ErrTeacherNotFound
		}
		uc.logger.Error("CreateLessonRequest: failed to get teacher: %v", err)
		return nil, fmt.Errorf("%w: failed to get teacher: %v", ErrInternal, err)
	}
	if !teacher.IsActive() {
		uc.logger.Warn("CreateLessonRequest: teacher id=%s is deactivated", req.TeacherID)
		return nil, ErrTeacherInactive
	}
	if !teacher.Teaches(req.CategoryID) {
		uc.logger.Warn("CreateLessonRequest: teacher id=%s does not teach category=%s", req.TeacherID, req.CategoryID)
		return nil, ErrTeacherCategoryMismatch
	}

	var result *domain.Lesson
	var use *domain.LessonSubscription

	// 5. Доступность, конфликты, создание и списание в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Запрошенное окно целиком внутри ровно одного слота
		// расписания преподавателя на эту дату
		slots, err := uc.slotRepo.ListByTeacher(txCtx, req.TeacherID)
		if err != nil {
			uc.logger.Error("CreateLessonRequest: failed to list slots: %v", err)
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		if countContainingWindows(slots, req.StartTime, req.FinishTime, uc.location) != 1 {
			uc.logger.Warn("CreateLessonRequest: window is not inside exactly one availability window")
			return ErrOutsideAvailability
		}

		// 5.2. Преподаватель свободен
		busy, err := uc.lessonRepo.HasTeacherOverlap(txCtx, req.TeacherID, req.StartTime, req.FinishTime, nil)
		if err != nil {
			uc.logger.Error("CreateLessonRequest: failed to check teacher overlap: %v", err)
			return fmt.Errorf("%w: failed to check teacher overlap: %v", ErrInternal, err)
		}
		if busy {
			uc.logger.Warn("CreateLessonRequest: teacher id=%s is busy", req.TeacherID)
			return ErrTeacherBusy
		}

		// 5.3. Ученик свободен
		busy, err = uc.lessonRepo.HasStudentOverlap(txCtx, req.StudentID, req.StartTime, req.FinishTime, nil)
		if err != nil {
			uc.logger.Error("CreateLessonRequest: failed to check student overlap: %v", err)
			return fmt.Errorf("%w: failed to check student overlap: %v", ErrInternal, err)
		}
		if busy {
			uc.logger.Warn("CreateLessonRequest: student id=%s is busy", req.StudentID)
			return ErrStudentBusy
		}

		// 5.4. Создаем неподтверждённое занятие без зала
		lesson := &domain.Lesson{
			Name:        req.Name,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			StartTime:   req.StartTime,
			FinishTime:  req.FinishTime,
			IsConfirmed: false,
		}

		created, err := uc.lessonRepo.Create(txCtx, lesson)
		if err != nil {
			uc.logger.Error("CreateLessonRequest: failed to create lesson: %v", err)
			return fmt.Errorf("%w: failed to create lesson: %v", ErrInternal, err)
		}

		// 5.5. Привязываем преподавателя
		if err := uc.lessonRepo.AttachTeacher(txCtx, req.TeacherID, created.ID); err != nil {
			uc.logger.Error("CreateLessonRequest: failed to attach teacher: %v", err)
			return fmt.Errorf("%w: failed to attach teacher: %v", ErrInternal, err)
		}

		// 5.6. Списываем кредит: заявка бронирует кредит сразу
		use, err = uc.ledger.Reserve(txCtx, req.StudentID, created, req.SubscriptionID, now)
		if err != nil {
			return err
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 6. Уведомляем преподавателя; сбой уведомления не отменяет заявку
	if err := uc.notifier.LessonRequested(ctx, result.ID, req.TeacherID, req.StudentID); err != nil {
		uc.logger.Warn("CreateLessonRequest: failed to notify teacher=%s: %v", req.TeacherID, err)
	}

	uc.logger.Info("CreateLessonRequest: created request id=%s, subscription=%s", result.ID, use.SubscriptionID)
	return &Response{
		ID:             result.ID,
		Name:           result.Name,
		CategoryID:     result.CategoryID,
		TeacherID:      req.TeacherID,
		StartTime:      result.StartTime,
		FinishTime:     result.FinishTime,
		IsConfirmed:    result.IsConfirmed,
		SubscriptionID: use.SubscriptionID,
		CreatedAt:      result.CreatedAt,
	}, nil
}
